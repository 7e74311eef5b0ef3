package promptpay

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels.
const DefaultQRSize = 320

// QR is a rendered PromptPay code.
type QR struct {
	Payload   string `json:"payload"`
	PNGBase64 string `json:"pngBase64"`
}

// Render builds the payload and encodes it as a PNG.
func Render(target string, amountBaht int, size int) (*QR, error) {
	payload, err := Payload(target, amountBaht)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode promptpay qr: %w", err)
	}
	return &QR{Payload: payload, PNGBase64: base64.StdEncoding.EncodeToString(png)}, nil
}
