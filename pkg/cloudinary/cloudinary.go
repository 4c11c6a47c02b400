package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads payment proof images (deposit receipts, fee payment
// screenshots). Uploads always happen before any account row is locked.
type Client interface {
	UploadProof(ctx context.Context, file io.Reader, folder, publicID string) (url string, err error)
}

const proofEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadProof uploads an image with eager optimization and returns its
// secure delivery URL.
func (c *clientImpl) UploadProof(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      proofEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// NewClientFromParams builds a Client from Cloudinary credentials.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}

// NoopClient returns a Client that never uploads; used when Cloudinary
// credentials are not configured (proof URLs stay empty).
func NoopClient() Client { return noop{} }

type noop struct{}

func (noop) UploadProof(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	return "", fmt.Errorf("cloudinary not configured")
}
