package userinteraction

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var _ output.PromptPort = (*ConsolePrompt)(nil)

const keyCtrlC = 0x03

// ConsolePrompt asks a single-key yes/no question with a visible countdown.
// On a terminal the key is read in raw mode so Enter is not required.
type ConsolePrompt struct {
	in   io.Reader
	out  io.Writer
	fd   int
	tick time.Duration
}

func NewConsolePrompt() *ConsolePrompt {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &ConsolePrompt{in: os.Stdin, out: os.Stderr, fd: fd, tick: time.Second}
}

// NewPrompt builds a prompt over arbitrary streams, never switching to raw mode.
func NewPrompt(in io.Reader, out io.Writer, tick time.Duration) *ConsolePrompt {
	return &ConsolePrompt{in: in, out: out, fd: -1, tick: tick}
}

// Ask returns false when the operator answers Y, true on N, Enter, EOF or
// when the countdown runs out. Ctrl-C yields entity.ErrInterrupted.
func (p *ConsolePrompt) Ask(ctx context.Context, question string, seconds int) (bool, error) {
	if p.fd >= 0 {
		state, err := term.MakeRaw(p.fd)
		if err == nil {
			defer term.Restore(p.fd, state)
		}
	}

	done := make(chan struct{})
	defer close(done)
	keys := make(chan byte)
	go p.readKeys(keys, done)

	yellow := color.New(color.FgYellow, color.Bold)
	dim := color.New(color.Faint)

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	remaining := seconds
	for {
		yellow.Fprintf(p.out, "\r%s ", question)
		dim.Fprintf(p.out, "[Y/N, %2ds] ", remaining)

		if remaining <= 0 {
			p.newline()
			return true, nil
		}

		select {
		case <-ctx.Done():
			p.newline()
			return false, ctx.Err()
		case k, ok := <-keys:
			if !ok {
				p.newline()
				return true, nil
			}
			switch k {
			case 'y', 'Y':
				p.answer("Y")
				return false, nil
			case 'n', 'N', '\r', '\n':
				p.answer("N")
				return true, nil
			case keyCtrlC:
				p.answer("^C")
				return false, entity.ErrInterrupted
			}
		case <-ticker.C:
			remaining--
		}
	}
}

// readKeys forwards bytes until a read fails or done is closed. keys is
// closed on exit. A read already blocked when Ask returns is abandoned.
func (p *ConsolePrompt) readKeys(keys chan<- byte, done <-chan struct{}) {
	defer close(keys)
	buf := make([]byte, 1)
	for {
		n, err := p.in.Read(buf)
		if n == 1 {
			select {
			case keys <- buf[0]:
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
		select {
		case <-done:
			return
		default:
		}
	}
}

func (p *ConsolePrompt) answer(s string) {
	fmt.Fprint(p.out, s)
	p.newline()
}

func (p *ConsolePrompt) newline() {
	fmt.Fprint(p.out, "\r\n")
}
