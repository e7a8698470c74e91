package qrtoken

import (
	"bytes"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const qrImageSize = 512

// RenderPNG encodes the signed token into a QR code PNG suitable for
// embedding in the printed permit.
func RenderPNG(token string) ([]byte, error) {
	code, err := qr.Encode(token, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(code, qrImageSize, qrImageSize)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
