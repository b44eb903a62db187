// Package imaging validates uploaded worklist screenshots and converts them
// into a payload the extraction service accepts. JPEG and PNG pass through
// untouched; HEIC photos (the usual phone screenshot-of-a-screen case) are
// decoded and re-encoded as JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/png"

	_ "github.com/gen2brain/heic"
)

// ErrNotImage marks input that is neither a supported image format nor
// convertible to one. Handlers surface it to the user inline.
var ErrNotImage = errors.New("unsupported or unreadable image")

const jpegQuality = 90

// Payload is the normalized image handed to the extraction service.
type Payload struct {
	MIME string
	Data []byte
}

// Prepare validates raw upload bytes and returns an extraction payload.
func Prepare(data []byte) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, fmt.Errorf("%w: empty upload", ErrNotImage)
	}

	switch http.DetectContentType(data) {
	case "image/jpeg":
		return Payload{MIME: "image/jpeg", Data: data}, nil
	case "image/png":
		return Payload{MIME: "image/png", Data: data}, nil
	}

	// Anything else (HEIC in particular) goes through a full decode and a
	// JPEG re-encode.
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Payload{}, fmt.Errorf("failed to convert %s upload: %w", format, err)
	}
	return Payload{MIME: "image/jpeg", Data: buf.Bytes()}, nil
}
