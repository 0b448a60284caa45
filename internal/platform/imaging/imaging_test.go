package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func encode(t *testing.T, mime string, enc func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		t.Fatalf("encode %s: %v", mime, err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))

	pngURL := encode(t, "image/png", func(buf *bytes.Buffer) error { return png.Encode(buf, img) })
	dec, err := DecodeDataURL(pngURL)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if dec.Format != "png" {
		t.Errorf("expected png, got %s", dec.Format)
	}
	if dec.Width != 4 || dec.Height != 3 {
		t.Errorf("expected 4x3, got %dx%d", dec.Width, dec.Height)
	}
	if !dec.Embeddable() {
		t.Error("png must be embeddable")
	}
}

func TestDecodeDataURLBmpNotEmbeddable(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	bmpURL := encode(t, "image/bmp", func(buf *bytes.Buffer) error { return bmp.Encode(buf, img) })

	dec, err := DecodeDataURL(bmpURL)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if dec.Format != "bmp" {
		t.Errorf("expected bmp, got %s", dec.Format)
	}
	if dec.Embeddable() {
		t.Error("bmp must not be embeddable")
	}
}

func TestDecodeDataURLGif(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	gifURL := encode(t, "image/gif", func(buf *bytes.Buffer) error { return gif.Encode(buf, img, nil) })

	dec, err := DecodeDataURL(gifURL)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}
	if dec.Format != "gif" || !dec.Embeddable() {
		t.Errorf("gif must decode as embeddable, got %s", dec.Format)
	}
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no data url prefix", "hello world"},
		{"bad base64", "data:image/png;base64,@@@@"},
		{"not a raster", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeDataURL(tt.data); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := DecodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("xx"))); !errors.Is(err, ErrNotRaster) {
		t.Errorf("expected ErrNotRaster, got %v", err)
	}
}
