// Package cloudinary wraps the Cloudinary SDK behind the single
// upload(file) -> url contract the document flow depends on, so the media
// backend stays swappable.
package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads one file and returns its delivery URL.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
}

// Eager transformation applied at upload so clients fetch an optimized asset.
const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName    string
	uploadPreset string // set for unsigned uploads
	uploader     *uploader.API
}

func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	params := uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	}
	if c.uploadPreset != "" {
		params.UploadPreset = c.uploadPreset
	}
	result, err := c.uploader.Upload(ctx, file, params)
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload returned no url (public_id %q)", result.PublicID)
	}
	return result.SecureURL, nil
}

// NewClientFromParams builds a signed-upload Client from API credentials.
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

// NewUnsignedClient builds a Client that uploads through an unsigned preset,
// the path the mobile app used before API credentials were provisioned.
func NewUnsignedClient(cloudName, uploadPreset string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, "", "")
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploadPreset: uploadPreset, uploader: up}, nil
}
