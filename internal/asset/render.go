package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	qrSize     = 256
	cardWidth  = 400
	cardHeight = 480
	qrTop      = 64
	margin     = 16
)

// RenderQR encodes content as a square PNG QR code.
func RenderQR(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("empty QR content")
	}

	b, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}

	return b, nil
}

// RenderCard composes a printable donation card: the campaign title above the
// QR code and a caption below it.
func RenderCard(qrPNG []byte, title, caption string) ([]byte, error) {
	qr, err := png.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return nil, fmt.Errorf("decoding QR code: %w", err)
	}

	card := imaging.New(cardWidth, cardHeight, color.White)
	qr = imaging.Resize(qr, qrSize, qrSize, imaging.NearestNeighbor)
	card = imaging.Paste(card, qr, image.Pt((cardWidth-qrSize)/2, qrTop))

	drawCentered(card, qrTop/2+4, title)
	drawCentered(card, qrTop+qrSize+32, caption)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, card, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding card: %w", err)
	}

	return buf.Bytes(), nil
}

func drawCentered(dst *image.NRGBA, y int, text string) {
	face := basicfont.Face7x13
	text = fitWidth(face, text, cardWidth-2*margin)

	width := font.MeasureString(face, text).Ceil()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P((cardWidth-width)/2, y),
	}
	d.DrawString(text)
}

// fitWidth truncates text with an ellipsis until it fits in max pixels.
func fitWidth(face font.Face, text string, max int) string {
	if font.MeasureString(face, text).Ceil() <= max {
		return text
	}

	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]

		candidate := string(runes) + "..."
		if font.MeasureString(face, candidate).Ceil() <= max {
			return candidate
		}
	}

	return ""
}
