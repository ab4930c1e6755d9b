package domain

import (
	"context"
	"io"
)

// Attachment is a binary payload received with a request, not yet uploaded.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadGateway stores binary media with an external host.
type UploadGateway interface {
	// Upload stores att and returns its stable public URL.
	Upload(ctx context.Context, att Attachment) (string, error)
}
