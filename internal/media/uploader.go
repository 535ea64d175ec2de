// Package media coordinates uploads to the remote media store. Two pipelines
// share it: design-inspiration references attached while the wizard is open,
// and completion evidence attached when a booking is marked complete.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Kind selects the media store resource type and its upload preset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// UploadError is a fatal failure for one file: transport error, non-success
// response, or a response body without a secure URL. It aborts the batch the
// file belonged to; nothing partial is committed.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upload %s failed", e.Filename)
	}
	return fmt.Sprintf("upload %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Uploader sends one file to the media store and returns its stable URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, kind Kind, name string) (string, error)
}

// CloudinaryUploader is the production Uploader.
type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	folder  string
	presets map[Kind]string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder, imagePreset, videoPreset string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cld:    cld,
		folder: folder,
		presets: map[Kind]string{
			KindImage: imagePreset,
			KindVideo: videoPreset,
		},
	}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, kind Kind, name string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       u.folder,
		UploadPreset: u.presets[kind],
		ResourceType: string(kind),
	})
	if err != nil {
		return "", &UploadError{Filename: name, Err: err}
	}
	if resp.SecureURL == "" {
		// Cloudinary reports some failures inside a 200 body.
		return "", &UploadError{Filename: name, Err: fmt.Errorf("no secure URL in response: %s", resp.Error.Message)}
	}
	return resp.SecureURL, nil
}
