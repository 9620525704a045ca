package tag

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Origin says which point of an element Left/Top refer to.
type Origin int

const (
	OriginTopLeft Origin = iota
	OriginCenter
)

// Placement is the transformable part shared by every element.
type Placement struct {
	Left, Top      float64
	ScaleX, ScaleY float64
	Origin         Origin
}

// Place returns the element's placement so callers can read or rescale it.
func (p *Placement) Place() *Placement { return p }

func (p *Placement) rescale(k float64) {
	p.ScaleX *= k
	p.ScaleY *= k
	p.Left *= k
	p.Top *= k
}

// Element is one visual primitive of a tag. Paint order is slice order.
type Element interface {
	Place() *Placement
}

// Shadow is a drop shadow drawn under a shape, in the element's own units.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Paint holds fill and stroke. A nil Fill or Stroke is not drawn. Opacity
// ranges from 0 (invisible) to 1.
type Paint struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
	Opacity     float64
	Shadow      *Shadow
}

type Rect struct {
	Placement
	Paint
	Width, Height float64
	RX, RY        float64
}

type Circle struct {
	Placement
	Paint
	Radius float64
}

// Path is an outline in SVG path syntax. Only M, L and Z are understood.
// Its origin is the centre (or top-left) of the points' bounding box.
type Path struct {
	Placement
	Paint
	D string
}

// Font names a face by family and CSS-style weight.
type Font struct {
	Family string
	Weight int
	Size   float64
}

// Text is a single line. CharSpacing is in thousandths of an em.
type Text struct {
	Placement
	Paint
	Content     string
	Font        Font
	CharSpacing float64
}

// Image is a resolved raster. ClipRadius, when positive, clips the image to a
// circle of that radius (in source pixels) around its centre.
type Image struct {
	Placement
	Role       SlotRole
	Source     image.Image
	Width      float64
	Height     float64
	ClipRadius float64
}

// SlotRole identifies what a Slot is waiting for.
type SlotRole int

const (
	SlotAvatar SlotRole = iota
	SlotLogo
)

func (r SlotRole) String() string {
	switch r {
	case SlotAvatar:
		return "avatar"
	case SlotLogo:
		return "logo"
	}
	return "slot(" + strconv.Itoa(int(r)) + ")"
}

// Slot is a placeholder emitted by a template for an image that still has to
// be fetched. Fit is the avatar's target width or the logo's target height.
// Slots never appear in a composed Group.
type Slot struct {
	Placement
	Role SlotRole
	URL  string
	Fit  float64
}

// fill turns the slot into an image element sized for its role.
func (s *Slot) fill(src image.Image) *Image {
	w, h := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := &Image{
		Placement: s.Placement,
		Role:      s.Role,
		Source:    src,
		Width:     w,
		Height:    h,
	}
	k := s.Fit / w
	if s.Role == SlotLogo {
		k = s.Fit / h
	}
	img.ScaleX, img.ScaleY = k, k
	if s.Role == SlotAvatar {
		img.ClipRadius = w / 2
	}
	return img
}

// Point is a vertex of a Path.
type Point struct{ X, Y float64 }

// Polygons parses D into closed or open point runs.
func (p *Path) Polygons() ([][]Point, error) {
	var (
		out  [][]Point
		cur  []Point
		cmd  byte
		nums []float64
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	fields := strings.Fields(strings.NewReplacer(",", " ").Replace(p.D))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f {
		case "M", "m":
			flush()
			cmd = 'M'
			continue
		case "L", "l":
			cmd = 'L'
			continue
		case "Z", "z":
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
			cmd = 0
			continue
		}
		if cmd == 0 {
			return nil, fmt.Errorf("path %q: coordinate without command", p.D)
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", p.D, err)
		}
		nums = append(nums, v)
		if len(nums) == 2 {
			cur = append(cur, Point{nums[0], nums[1]})
			nums = nums[:0]
		}
	}
	if len(nums) != 0 {
		return nil, fmt.Errorf("path %q: odd coordinate count", p.D)
	}
	flush()
	return out, nil
}

// Bounds returns the bounding box of the path's points.
func (p *Path) Bounds() (lo, hi Point, err error) {
	polys, err := p.Polygons()
	if err != nil {
		return lo, hi, err
	}
	lo = Point{math.Inf(1), math.Inf(1)}
	hi = Point{math.Inf(-1), math.Inf(-1)}
	for _, poly := range polys {
		for _, pt := range poly {
			lo.X, lo.Y = math.Min(lo.X, pt.X), math.Min(lo.Y, pt.Y)
			hi.X, hi.Y = math.Max(hi.X, pt.X), math.Max(hi.Y, pt.Y)
		}
	}
	if math.IsInf(lo.X, 1) {
		return Point{}, Point{}, nil
	}
	return lo, hi, nil
}

func rgb(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func rgba(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
}

func at(left, top float64, o Origin) Placement {
	return Placement{Left: left, Top: top, ScaleX: 1, ScaleY: 1, Origin: o}
}
