package imagepkg

import (
	"errors"
	"strings"
	"unicode"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrNoDigits is returned when a phone number has nothing to dial.
var ErrNoDigits = errors.New("phone number has no digits")

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}

// TelURI turns a printed number such as "0901 234 567" or "+84 901.234.567"
// into a tel: URI.
func TelURI(phone string) (string, error) {
	var b strings.Builder
	b.WriteString("tel:")
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if !strings.ContainsFunc(b.String(), unicode.IsDigit) {
		return "", ErrNoDigits
	}
	return b.String(), nil
}

// ContactQR returns a PNG QR that dials phone when scanned.
func ContactQR(phone string, size int) ([]byte, error) {
	uri, err := TelURI(phone)
	if err != nil {
		return nil, err
	}
	return GenerateQRPNG(uri, size)
}
