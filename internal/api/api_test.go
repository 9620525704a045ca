package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/tagstamp/internal/fonts"
	imagepkg "github.com/youruser/tagstamp/internal/image"
	"github.com/youruser/tagstamp/internal/logging"
	"github.com/youruser/tagstamp/internal/roster"
	"github.com/youruser/tagstamp/internal/stamp"
	"github.com/youruser/tagstamp/internal/tag"
)

type mapLoader map[string]image.Image

func (m mapLoader) LoadImage(_ context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, "ftp://") {
		return nil, fmt.Errorf("%w: %s", imagepkg.ErrUnsupportedSource, url)
	}
	if img, ok := m[url]; ok {
		return img, nil
	}
	return nil, errors.New("404")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	book, err := fonts.NewBook()
	if err != nil {
		t.Fatal(err)
	}
	loader := mapLoader{
		"https://cdn.example/photo.jpg":  imaging.New(400, 300, color.White),
		"https://cdn.example/empty.jpg":  image.NewNRGBA(image.Rect(0, 0, 0, 0)),
		"https://cdn.example/avatar.jpg": imaging.New(100, 100, color.NRGBA{R: 200, A: 255}),
		"https://cdn.example/logo.png":   imaging.New(80, 20, color.NRGBA{B: 200, A: 255}),
	}
	s := &Server{
		Stamper: stamp.New(tag.New(loader), imagepkg.NewRenderer(book)),
		Loader:  loader,
		Agents: []roster.Agent{
			{ID: "a1", Profile: tag.Profile{FullName: "Nguyễn Văn An", Agency: "Đất Xanh", AvatarURL: "https://cdn.example/avatar.jpg", LogoURL: "https://cdn.example/logo.png"}},
			{ID: "a2", Profile: tag.Profile{FullName: "Trần Bình", Agency: "Cenland"}},
		},
		Variant: tag.TagOrange,
	}
	return NewRouter(s, logging.New(io.Discard, log.InfoLevel))
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("health = %d %s", w.Code, w.Body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestVariants(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/api/variants", "")
	var resp struct{ Variants []string }
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Join(resp.Variants, ",") != "tag_orange,tag_luxury,tag_blue" {
		t.Errorf("variants = %v", resp.Variants)
	}
}

func TestWatermark(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/watermark",
		`{"photo_url":"https://cdn.example/photo.jpg","variant":"tag_luxury","agent_id":"a1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if w.Header().Get("X-Tag-Variant") != "tag_luxury" || w.Header().Get("X-Tag-Elements") != "9" {
		t.Errorf("tag headers = %v", w.Header())
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestWatermarkInlineProfileJPEG(t *testing.T) {
	w := do(newTestRouter(t), http.MethodPost, "/api/watermark",
		`{"photo_url":"https://cdn.example/photo.jpg","format":"jpeg","profile":{"full_name":"Lê Cường","phone":"0903"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if w.Header().Get("X-Tag-Variant") != "tag_orange" {
		t.Errorf("default variant = %q", w.Header().Get("X-Tag-Variant"))
	}
	// the fallback avatar URL is not in the loader, so the avatar is dropped
	if w.Header().Get("X-Tag-Elements") != "6" {
		t.Errorf("elements = %q", w.Header().Get("X-Tag-Elements"))
	}
	if _, err := jpeg.Decode(bytes.NewReader(w.Body.Bytes())); err != nil {
		t.Errorf("not a jpeg: %v", err)
	}
}

func TestWatermarkErrors(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"no photo", `{"variant":"tag_blue"}`, http.StatusBadRequest},
		{"bad variant", `{"photo_url":"https://cdn.example/photo.jpg","variant":"tag_green"}`, http.StatusBadRequest},
		{"bad format", `{"photo_url":"https://cdn.example/photo.jpg","format":"gif"}`, http.StatusBadRequest},
		{"unknown agent", `{"photo_url":"https://cdn.example/photo.jpg","agent_id":"zz"}`, http.StatusNotFound},
		{"unsupported source", `{"photo_url":"ftp://cdn.example/photo.jpg"}`, http.StatusBadRequest},
		{"photo missing", `{"photo_url":"https://cdn.example/gone.jpg"}`, http.StatusBadGateway},
		{"empty photo", `{"photo_url":"https://cdn.example/empty.jpg"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/watermark", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body = %s", w.Body)
			}
		})
	}
}

func TestQR(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/qr?phone=0901%20234%20567&size=128", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("qr width = %d", img.Bounds().Dx())
	}

	if w := do(r, http.MethodGet, "/api/qr?agent_id=a1", ""); w.Code != http.StatusOK {
		t.Errorf("vcard qr = %d %s", w.Code, w.Body)
	}

	for q, want := range map[string]int{
		"":               http.StatusBadRequest,
		"?phone=abc":     http.StatusBadRequest,
		"?agent_id=nope": http.StatusNotFound,
	} {
		if w := do(r, http.MethodGet, "/api/qr"+q, ""); w.Code != want {
			t.Errorf("qr%s = %d, want %d", q, w.Code, want)
		}
	}
}

func TestAgents(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?q=an", 2},
		{"?q=a2", 1},
		{"?agency=cenland", 1},
		{"?with_logo=true", 1},
	}
	for _, tt := range tests {
		w := do(r, http.MethodGet, "/api/agents"+tt.query, "")
		var resp struct {
			Count  int
			Agents []roster.Agent
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: %v", tt.query, err)
		}
		if resp.Count != tt.want || len(resp.Agents) != tt.want {
			t.Errorf("agents%s = %d, want %d", tt.query, resp.Count, tt.want)
		}
	}
}
