package imagepkg

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestTelURI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0901 234 567", "tel:0901234567"},
		{"+84 901.234.567", "tel:+84901234567"},
		{" (028) 3822-1234 ", "tel:02838221234"},
		{"09xx.xxx.xxx", "tel:09"},
	}
	for _, tt := range tests {
		got, err := TelURI(tt.in)
		if err != nil {
			t.Fatalf("TelURI(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("TelURI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := TelURI("call me"); !errors.Is(err, ErrNoDigits) {
		t.Errorf("err = %v, want ErrNoDigits", err)
	}
}

func TestContactQR(t *testing.T) {
	b, err := ContactQR("0901 234 567", 256)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 256 {
		t.Errorf("width = %d, want 256", img.Bounds().Dx())
	}
}

func TestContactQREncodesTelURI(t *testing.T) {
	got, err := ContactQR("+84 901.234.567", 200)
	if err != nil {
		t.Fatal(err)
	}
	want, err := GenerateQRPNG("tel:+84901234567", 200)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Error("ContactQR payload differs from the tel: URI")
	}
	if _, err := ContactQR("no digits", 200); !errors.Is(err, ErrNoDigits) {
		t.Errorf("err = %v, want ErrNoDigits", err)
	}
}
