package policies

import (
	"context"
	"io"
)

// PhotoStorage stores listing images and returns a public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
