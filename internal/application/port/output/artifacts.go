package output

import "context"

type ScreenshotPort interface {
	Capture(ctx context.Context, page Page, tag string) (string, error)
}

type SnapshotPort interface {
	Save(ctx context.Context, page Page, tag string) (string, error)
}
