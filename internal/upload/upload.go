// Package upload stores article images with an external media host.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/config"
	"github.com/Guyuepp/go-article-service/internal/metrics"
)

var allowedContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// New builds the gateway selected by cfg.Upload.Provider.
func New(ctx context.Context, cfg config.Config) (domain.UploadGateway, error) {
	const op = "upload/New"

	var (
		gw  domain.UploadGateway
		err error
	)
	switch cfg.Upload.Provider {
	case config.ProviderCloudinary:
		gw, err = NewCloudinary(cfg.Cloud)
	case config.ProviderS3:
		gw, err = NewS3(ctx, cfg.S3)
	default:
		err = fmt.Errorf("unknown provider %q", cfg.Upload.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return Instrument(cfg.Upload.Provider, gw, cfg.Upload.MaxBytes), nil
}

// checkAttachment rejects anything that is not a reasonably sized image.
func checkAttachment(att domain.Attachment, maxBytes int64) error {
	if att.Body == nil {
		return domain.NewError(domain.ErrBadParamInput, "No file uploaded")
	}
	if maxBytes > 0 && att.Size > maxBytes {
		return domain.NewError(domain.ErrBadParamInput,
			fmt.Sprintf("File too large: %d bytes exceeds the limit of %d", att.Size, maxBytes))
	}
	if !isAllowedContentType(att.ContentType) {
		return domain.NewError(domain.ErrBadParamInput,
			fmt.Sprintf("Unsupported file type: %s", att.ContentType))
	}
	return nil
}

func isAllowedContentType(contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	return slices.Contains(allowedContentTypes, strings.TrimSpace(strings.ToLower(ct)))
}

// objectKey 生成形如 articles/<uuid>.<ext> 的对象键
func objectKey(att domain.Attachment) string {
	ct, _, _ := strings.Cut(strings.ToLower(att.ContentType), ";")
	ext, ok := extensions[strings.TrimSpace(ct)]
	if !ok {
		ext = strings.ToLower(path.Ext(att.Filename))
	}
	return path.Join("articles", uuid.NewString()+ext)
}

// ErrProviderUnavailable is returned while the breaker is open.
var ErrProviderUnavailable = domain.NewError(domain.ErrUpstream, "Upload service temporarily unavailable")

type instrumented struct {
	provider string
	next     domain.UploadGateway
	maxBytes int64
	breaker  *gobreaker.CircuitBreaker
}

// Instrument validates attachments before they reach next, records upload
// counts and durations per provider and stops calling a failing provider
// for a while once most recent calls have failed.
func Instrument(provider string, next domain.UploadGateway, maxBytes int64) domain.UploadGateway {
	return &instrumented{
		provider: provider,
		next:     next,
		maxBytes: maxBytes,
		breaker:  gobreaker.NewCircuitBreaker(breakerSettings(provider)),
	}
}

func breakerSettings(provider string) gobreaker.Settings {
	const (
		minRequests      = 5
		failureThreshold = 0.6
	)
	return gobreaker.Settings{
		Name:        "upload-" + provider,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}
}

func (i *instrumented) Upload(ctx context.Context, att domain.Attachment) (string, error) {
	if err := checkAttachment(att, i.maxBytes); err != nil {
		return "", err
	}

	res, err := i.breaker.Execute(func() (any, error) {
		start := time.Now()
		url, err := i.next.Upload(ctx, att)
		metrics.RecordUpload(i.provider, time.Since(start).Seconds(), err)
		return url, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrProviderUnavailable
		}
		return "", err
	}
	return res.(string), nil
}
