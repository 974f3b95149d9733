// File: internal/backend/encode.go
package backend

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/hackparv/operate/internal/config"
)

// EncodeScreenshot re-encodes a raw capture for embedding in a backend
// request: the longest edge is bounded to cfg.MaxEdge and the result is
// written as JPEG at cfg.JPEGQuality. When the raw bytes cannot be decoded
// the original capture is returned unchanged so a turn is never lost to a
// codec hiccup.
func EncodeScreenshot(raw []byte, cfg config.ScreenshotConfig) []byte {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}

	if longest > cfg.MaxEdge {
		scale := float64(cfg.MaxEdge) / float64(longest)
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cfg.JPEGQuality}); err != nil {
		return raw
	}
	return buf.Bytes()
}
