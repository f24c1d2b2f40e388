package input

import (
	"context"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

type PopupResolver interface {
	RunPopupResolution(ctx context.Context, scope output.Scope, page output.Page, timeout time.Duration) entity.DialogOutcome
}

type ObjectClicker interface {
	Execute(ctx context.Context, page output.Page) (*entity.RunReport, error)
}
