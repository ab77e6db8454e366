package helper

import (
	"context"
	"errors"
	"event_manager/config"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrCloudinaryDisabled = errors.New("cloudinary is not configured")

// InitCloudinary returns nil when credentials are missing.
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	name := config.Config("CLOUDINARY_CLOUD_NAME")
	if name == "" {
		return nil, nil
	}
	return cloudinary.NewFromParams(
		name,
		config.Config("CLOUDINARY_API_KEY"),
		config.Config("CLOUDINARY_API_SECRET"),
	)
}

// UploadEventImage stores an event cover under events/<eventId> and returns its secure URL.
func UploadEventImage(ctx context.Context, cld *cloudinary.Cloudinary, eventId uint, file io.Reader) (string, error) {
	if cld == nil {
		return "", ErrCloudinaryDisabled
	}
	overwrite := true
	res, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "events",
		PublicID:     fmt.Sprintf("event-%d", eventId),
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}
