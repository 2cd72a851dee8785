// Package images turns a featured image picked by the author into the URL
// string stored on a post.
package images

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// MaxSize is the largest image accepted by any Store.
const MaxSize = 5 << 20

var (
	ErrEmpty    = errors.New("image is empty")
	ErrTooLarge = errors.New("image exceeds 5 MiB")
	ErrNotImage = errors.New("file is not an image")
)

// Store keeps image bytes somewhere addressable and returns the URL to put
// into a post's featured image field.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// DetectImageType validates data and returns its MIME type.
func DetectImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}
	return mime, nil
}
