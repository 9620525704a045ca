package tag

import (
	"image"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestDeriveGeometry(t *testing.T) {
	tests := []struct {
		name string
		bg   Background
		ok   bool
		want Geometry
	}{
		{
			name: "unit scale",
			bg:   Background{Width: 1000, Height: 800, ScaleX: 1, Left: 500, Top: 400},
			ok:   true,
			want: Geometry{ActualWidth: 1000, ActualHeight: 800, OriginLeft: 0, OriginTop: 0, TagScale: 1000 * 0.35 / 450},
		},
		{
			name: "scaleY falls back to scaleX",
			bg:   Background{Width: 2000, Height: 1000, ScaleX: 0.5, Left: 600, Top: 300},
			ok:   true,
			want: Geometry{ActualWidth: 1000, ActualHeight: 500, OriginLeft: 100, OriginTop: 50, TagScale: 1000 * 0.35 / 450},
		},
		{
			name: "explicit scaleY",
			bg:   Background{Width: 900, Height: 600, ScaleX: 1, ScaleY: 2, Left: 450, Top: 600},
			ok:   true,
			want: Geometry{ActualWidth: 900, ActualHeight: 1200, OriginLeft: 0, OriginTop: 0, TagScale: 900 * 0.35 / 450},
		},
		{name: "missing scaleX", bg: Background{Width: 1000, Height: 800}},
		{name: "missing width", bg: Background{Height: 800, ScaleX: 1}},
		{name: "missing height", bg: Background{Width: 1000, ScaleX: 1}},
		{name: "negative width", bg: Background{Width: -10, Height: 800, ScaleX: 1}},
		{name: "NaN scale", bg: Background{Width: 1000, Height: 800, ScaleX: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveGeometry(tt.bg)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if !near(got.ActualWidth, tt.want.ActualWidth) || !near(got.ActualHeight, tt.want.ActualHeight) {
				t.Errorf("actual size = %vx%v, want %vx%v", got.ActualWidth, got.ActualHeight, tt.want.ActualWidth, tt.want.ActualHeight)
			}
			if !near(got.OriginLeft, tt.want.OriginLeft) || !near(got.OriginTop, tt.want.OriginTop) {
				t.Errorf("origin = (%v,%v), want (%v,%v)", got.OriginLeft, got.OriginTop, tt.want.OriginLeft, tt.want.OriginTop)
			}
			if !near(got.TagScale, tt.want.TagScale) {
				t.Errorf("TagScale = %v, want %v", got.TagScale, tt.want.TagScale)
			}
		})
	}
}

func TestBackgroundFor(t *testing.T) {
	bg := BackgroundFor(image.Rect(0, 0, 1200, 900))
	g, ok := DeriveGeometry(bg)
	if !ok {
		t.Fatal("expected usable geometry")
	}
	if g.OriginLeft != 0 || g.OriginTop != 0 {
		t.Errorf("origin = (%v,%v), want (0,0)", g.OriginLeft, g.OriginTop)
	}
	if g.ActualWidth != 1200 || g.ActualHeight != 900 {
		t.Errorf("actual size = %vx%v", g.ActualWidth, g.ActualHeight)
	}

	if _, ok := DeriveGeometry(BackgroundFor(image.Rectangle{})); ok {
		t.Error("empty raster should have no geometry")
	}
}
