package entity

type ScopeKind string

const (
	ScopeDocument ScopeKind = "document"
	ScopeFrame    ScopeKind = "frame"
)

type ButtonIntent string

const (
	IntentCancel  ButtonIntent = "cancel"
	IntentConfirm ButtonIntent = "confirm"
)

type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}
