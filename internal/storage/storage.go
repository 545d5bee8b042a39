// Package storage keeps uploaded images and turns stored references into URLs.
package storage

import (
	"context"
	"errors"
)

// ErrInvalidImage is returned when an upload payload is not a decodable image.
var ErrInvalidImage = errors.New("invalid image payload")

// Image is a decoded upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string // with leading dot, e.g. ".png"
}

// ImageStore persists images and exposes them by reference.
type ImageStore interface {
	// Save stores img under dir and returns its reference.
	Save(ctx context.Context, dir string, img *Image) (string, error)
	// Delete removes a previously saved reference. Missing objects are not an error.
	Delete(ctx context.Context, ref string) error
	// URL returns the public location of ref, either absolute or rooted at "/".
	URL(ref string) string
}
