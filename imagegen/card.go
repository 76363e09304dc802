package imagegen

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	cardWidth   = 380
	cardPadding = 15
	rowHeight   = 26
)

// CardRow is one line of a leaderboard card.
type CardRow struct {
	Rank  int
	Label string
	Value string
}

// LeaderboardCard renders ranked rows as a PNG, gold/silver/bronze tinted
// for the top three.
func LeaderboardCard(title string, rows []CardRow) ([]byte, error) {
	height := cardPadding*2 + rowHeight*(len(rows)+2)
	dc := gg.NewContext(cardWidth, height)

	// Background gradient, dark blue to near-black.
	grad := gg.NewLinearGradient(0, 0, 0, float64(height))
	grad.AddColorStop(0, color.NRGBA{R: 23, G: 23, B: 36, A: 255})
	grad.AddColorStop(1, color.NRGBA{R: 8, G: 8, B: 13, A: 255})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, cardWidth, float64(height))
	dc.Fill()

	boldFace, err := loadFace(gobold.TTF, 16)
	if err != nil {
		return nil, err
	}
	monoFace, err := loadFace(gomono.TTF, 13)
	if err != nil {
		return nil, err
	}

	dc.SetFontFace(boldFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, cardPadding, cardPadding+18)

	dc.SetFontFace(monoFace)
	y := float64(cardPadding + rowHeight + 24)
	for _, row := range rows {
		switch row.Rank {
		case 1:
			dc.SetRGB(1, 0.84, 0)
		case 2:
			dc.SetRGB(0.8, 0.8, 0.8)
		case 3:
			dc.SetRGB(0.8, 0.5, 0.2)
		default:
			dc.SetRGB(0.85, 0.85, 0.9)
		}

		label := row.Label
		if len(label) > 18 {
			label = label[:17] + "…"
		}
		dc.DrawString(fmt.Sprintf("%2d  %-18s", row.Rank, label), cardPadding, y)

		tw, _ := dc.MeasureString(row.Value)
		dc.DrawString(row.Value, cardWidth-cardPadding-tw, y)
		y += rowHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}
