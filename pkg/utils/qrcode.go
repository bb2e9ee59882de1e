package utils

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// QRCodePNG encodes content as a PNG QR code of size×size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode encode: %w", err)
	}
	return png, nil
}
