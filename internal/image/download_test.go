package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/youruser/tagstamp/internal/cache"
	"github.com/youruser/tagstamp/internal/util"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoaderDownloads(t *testing.T) {
	body := pngBytes(t, 40, 30, color.White)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Cookie") != "" || r.Header.Get("Authorization") != "" {
			t.Error("loader sent credentials")
		}
		if r.URL.Path != "/avatar.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(WithUserAgent("tagstamp-test"))
	img, err := l.LoadImage(context.Background(), srv.URL+"/avatar.png")
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("size = %v, want 40x30", b.Size())
	}

	_, err = l.LoadImage(context.Background(), srv.URL+"/missing.png")
	if !errors.Is(err, util.ErrStatus) {
		t.Errorf("missing image err = %v, want ErrStatus", err)
	}
}

func TestLoaderUsesCache(t *testing.T) {
	body := pngBytes(t, 8, 8, color.Black)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(body)
	}))

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l := NewLoader(WithCache(c, 0))
	url := srv.URL + "/logo.png"
	if _, err := l.LoadImage(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	srv.Close()

	if _, err := l.LoadImage(context.Background(), url); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestLoaderMaxBytes(t *testing.T) {
	body := pngBytes(t, 64, 64, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(WithMaxBytes(10))
	if _, err := l.LoadImage(context.Background(), srv.URL); !errors.Is(err, util.ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestLoaderDataURL(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 5, 7, color.White))
	img, err := NewLoader().LoadImage(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 7 {
		t.Errorf("size = %v", img.Bounds().Size())
	}

	if _, err := NewLoader().LoadImage(context.Background(), "data:image/png;base64"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("malformed data url err = %v", err)
	}
}

func TestLoaderLocalFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, pngBytes(t, 3, 3, color.Black), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewLoader().LoadImage(context.Background(), path); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("local path without opt-in: err = %v", err)
	}
	if _, err := NewLoader(WithLocalFiles(true)).LoadImage(context.Background(), "file://"+path); err != nil {
		t.Errorf("file url: %v", err)
	}
}

func TestLoaderRejectsGarbage(t *testing.T) {
	src := "data:text/plain,hello%20world"
	if _, err := NewLoader().LoadImage(context.Background(), src); err == nil {
		t.Error("decoding text as an image should fail")
	}
}
