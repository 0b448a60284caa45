// Package imaging decodes the inline data-URL image payloads used for exam
// attachments and the clinic letterhead.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrNotRaster is returned when a payload does not decode as a known raster
// format.
var ErrNotRaster = errors.New("not a recognized raster image")

// Decoded is the result of sniffing one data-URL payload.
type Decoded struct {
	Format string // png, jpeg, gif, bmp, tiff
	Bytes  []byte
	Width  int
	Height int
}

// Embeddable reports whether the format can go into a .docx package.
// bmp/tiff decode fine but word processors want png/jpeg/gif media parts.
func (d *Decoded) Embeddable() bool {
	switch d.Format {
	case "png", "jpeg", "gif":
		return true
	}
	return false
}

// DecodeDataURL parses a `data:<mime>;base64,<payload>` string and sniffs the
// raster format from the decoded bytes. The declared mime type is ignored;
// only the actual content counts.
func DecodeDataURL(dataURL string) (*Decoded, error) {
	_, b64, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("malformed data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrNotRaster
	}
	return &Decoded{Format: format, Bytes: raw, Width: cfg.Width, Height: cfg.Height}, nil
}
