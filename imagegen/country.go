// Package imagegen renders the bot's image responses: inverted country
// silhouettes for the geography game and text cards for leaderboards.
package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// InvertSilhouette inverts the RGB channels of a silhouette PNG while
// preserving alpha, so the black map shapes render white on dark Discord
// themes.
func InvertSilhouette(data []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode silhouette: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			dst.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 - r>>8),
				G: uint8(255 - g>>8),
				B: uint8(255 - b>>8),
				A: uint8(a >> 8),
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode silhouette: %w", err)
	}
	return buf.Bytes(), nil
}
