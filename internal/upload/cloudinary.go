package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/config"
)

// Cloudinary uploads images to a Cloudinary account.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

var _ domain.UploadGateway = (*Cloudinary)(nil)

func NewCloudinary(cfg config.CloudConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("upload/NewCloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, att domain.Attachment) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, att.Body, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return "", fmt.Errorf("upload/Cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("upload/Cloudinary: empty secure url in response")
	}
	return resp.SecureURL, nil
}
