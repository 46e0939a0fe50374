package storage

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MaxImageBytes bounds a decoded recipe image.
const MaxImageBytes = 5 << 20

var (
	ErrInvalidImage  = errors.New("invalid image data uri")
	ErrImageTooLarge = errors.New("image is too large")
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodedImage is the payload of an image data URI.
type DecodedImage struct {
	Data []byte
	Ext  string
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>". The declared type must
// be a supported image type and match the decoded bytes.
func DecodeDataURI(uri string) (*DecodedImage, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(uri), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidImage
	}

	mediaType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return nil, ErrInvalidImage
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+2 {
		return nil, ErrImageTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	if detected := http.DetectContentType(data); imageExtensions[detected] != ext {
		return nil, ErrInvalidImage
	}

	return &DecodedImage{Data: data, Ext: ext}, nil
}
