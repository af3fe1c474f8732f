package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte("fake image bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	decoded, err := DecodeBase64Image(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeBase64ImageDataURL(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	decoded, err := DecodeBase64Image(payload)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeBase64ImageErrors(t *testing.T) {
	_, err := DecodeBase64Image("")
	assert.ErrorIs(t, err, ErrEmptyImage)

	// Malformed base64 is a client error, not an internal one.
	_, err = DecodeBase64Image("!!! not base64 !!!")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNormalizeJPEGPassthrough(t *testing.T) {
	jpegData := testImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})

	out, err := NormalizeJPEG(jpegData)
	require.NoError(t, err)
	assert.Equal(t, jpegData, out)
}

func TestNormalizeJPEGFromPNG(t *testing.T) {
	pngData := testImageBytes(t, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	out, err := NormalizeJPEG(pngData)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalizeJPEGRejectsGarbage(t *testing.T) {
	_, err := NormalizeJPEG([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
