package images

import (
	"context"
	"encoding/base64"
)

// DataURLStore inlines the image into the post as a base64 data URL. Nothing
// leaves the process until the post itself is saved.
type DataURLStore struct{}

func (DataURLStore) Put(_ context.Context, _ string, data []byte) (string, error) {
	mime, err := DetectImageType(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
