package chart

import (
	"bytes"
	"fmt"
	"image/png"
)

// EncodePNG serializes the image already held by r. It never re-renders.
func EncodePNG(r *Result) ([]byte, error) {
	if r == nil || r.Image == nil {
		return nil, ErrNoImage
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
