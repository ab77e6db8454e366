package utils

import (
	"bytes"
	"encoding/json"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCode encodes content as a QR PNG of size x size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// QRPayload marshals v to the JSON string embedded in a ticket's QR code.
func QRPayload(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
