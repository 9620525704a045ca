package tag

import (
	"image"
	"math"
)

// Logical size every template is authored in, origin at the centre.
const (
	TagWidth  = 450.0
	TagHeight = 130.0

	// widthShare is the fraction of the photo's displayed width the tag spans.
	widthShare = 0.35
)

// Background is the photo already placed in the scene. Left and Top are its
// centre in scene coordinates. A zero ScaleY means "same as ScaleX".
type Background struct {
	Width, Height  float64
	ScaleX, ScaleY float64
	Left, Top      float64
}

// BackgroundFor describes a raster drawn at scale 1 and centred in its own
// pixel space, so scene and pixel coordinates coincide.
func BackgroundFor(r image.Rectangle) Background {
	w, h := float64(r.Dx()), float64(r.Dy())
	return Background{Width: w, Height: h, ScaleX: 1, ScaleY: 1, Left: w / 2, Top: h / 2}
}

// Geometry is what the compositor derives from a Background.
type Geometry struct {
	ActualWidth  float64
	ActualHeight float64
	OriginLeft   float64
	OriginTop    float64
	TagScale     float64
}

// DeriveGeometry returns false when width, height or scaleX is missing,
// meaning the photo should not be watermarked. ScaleX is never defaulted.
func DeriveGeometry(bg Background) (Geometry, bool) {
	if !positive(bg.Width) || !positive(bg.Height) || !positive(bg.ScaleX) {
		return Geometry{}, false
	}
	scaleY := bg.ScaleY
	if scaleY == 0 || math.IsNaN(scaleY) {
		scaleY = bg.ScaleX
	}
	g := Geometry{
		ActualWidth:  bg.Width * bg.ScaleX,
		ActualHeight: bg.Height * scaleY,
	}
	g.OriginLeft = bg.Left - g.ActualWidth/2
	g.OriginTop = bg.Top - g.ActualHeight/2
	g.TagScale = g.ActualWidth * widthShare / TagWidth
	return g, true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
