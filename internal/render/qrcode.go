package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// GenerateQRCodeImage returns a QR code for payload, drawn in the given
// colours so it matches the mirror palette. Nil colours keep the library's
// black on white. An empty payload returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int, fg, bg color.Color) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	if fg != nil {
		qrCode.ForegroundColor = fg
	}
	if bg != nil {
		qrCode.BackgroundColor = bg
	}

	return qrCode.Image(sizePx), nil
}
