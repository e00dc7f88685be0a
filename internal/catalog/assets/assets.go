// Package assets stores uploaded binary assets (logo images) and hands back
// public URLs for them.
package assets

import (
	"context"
	"errors"
)

// Tagged upload errors. Upload failures are non-fatal to record writes: the
// caller logs them and degrades the logo field instead of aborting.
var (
	ErrQuota          = errors.New("asset storage quota exceeded")
	ErrConnection     = errors.New("asset store unreachable")
	ErrInvalidContent = errors.New("unsupported asset content type")
)

// Store uploads binary assets and returns their public URL.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType, filename string) (string, error)
}
