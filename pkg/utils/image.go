package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage = errors.New("empty image payload")

	// ErrInvalidImage marks payloads that are not valid base64 or not a
	// decodable image, so handlers can answer with a client error.
	ErrInvalidImage = errors.New("invalid image payload")
)

// DecodeBase64Image decodes a base64 image payload, stripping an optional
// data-URL prefix ("data:image/jpeg;base64,...").
func DecodeBase64Image(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyImage
	}

	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	return data, nil
}

// NormalizeJPEG re-encodes any supported image format (jpeg, png, gif, webp)
// as JPEG so stored snapshots are uniform.
func NormalizeJPEG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrInvalidImage, err)
	}

	if format == "jpeg" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
