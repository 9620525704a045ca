package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/youruser/tagstamp/internal/fonts"
	"github.com/youruser/tagstamp/internal/tag"
)

// Renderer draws composed tags onto photos. It is safe for concurrent use.
type Renderer struct {
	fonts *fonts.Book
}

func NewRenderer(book *fonts.Book) *Renderer {
	return &Renderer{fonts: book}
}

// affine maps local element units to photo pixels. Tags are never rotated,
// so scale plus translation is enough.
type affine struct {
	sx, sy, tx, ty float64
}

func (a affine) apply(x, y float64) (float64, float64) {
	return a.tx + a.sx*x, a.ty + a.sy*y
}

// then returns a with a local translation and scale appended.
func (a affine) then(dx, dy, sx, sy float64) affine {
	return affine{
		sx: a.sx * sx,
		sy: a.sy * sy,
		tx: a.tx + a.sx*dx,
		ty: a.ty + a.sy*dy,
	}
}

func (a affine) set(dc *gg.Context) {
	dc.Identity()
	dc.Translate(a.tx, a.ty)
	dc.Scale(a.sx, a.sy)
}

func (a affine) scale() float64 { return math.Sqrt(math.Abs(a.sx * a.sy)) }

type faceKey struct {
	family string
	weight int
	size   float64
}

// frame holds per-call state; font faces are not shareable between goroutines.
type frame struct {
	dc    *gg.Context
	book  *fonts.Book
	faces map[faceKey]font.Face
}

// Render returns a copy of photo with g drawn on it. bg describes how photo
// sits in the scene g was composed for. A nil group returns the photo as is.
func (r *Renderer) Render(photo image.Image, bg tag.Background, g *tag.Group) (image.Image, error) {
	if g == nil {
		return photo, nil
	}
	geo, ok := tag.DeriveGeometry(bg)
	if !ok {
		return photo, nil
	}

	b := photo.Bounds()
	px := float64(b.Dx()) / geo.ActualWidth
	py := float64(b.Dy()) / geo.ActualHeight
	group := affine{
		sx: px,
		sy: py,
		tx: (g.Left - geo.OriginLeft) * px,
		ty: (g.Top - geo.OriginTop) * py,
	}

	f := &frame{
		dc:    gg.NewContextForImage(photo),
		book:  r.fonts,
		faces: make(map[faceKey]font.Face),
	}
	defer f.close()

	for i, e := range g.Elements {
		p := e.Place()
		xf := group.then(p.Left, p.Top, p.ScaleX, p.ScaleY)
		var err error
		switch e := e.(type) {
		case *tag.Rect:
			err = f.rect(xf, e)
		case *tag.Circle:
			f.circle(xf, e)
		case *tag.Path:
			err = f.path(xf, e)
		case *tag.Text:
			err = f.text(xf, e)
		case *tag.Image:
			f.image(xf, e)
		default:
			err = fmt.Errorf("unsupported element %T", e)
		}
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return f.dc.Image(), nil
}

func (f *frame) close() {
	for _, face := range f.faces {
		face.Close()
	}
}

func (f *frame) rect(xf affine, e *tag.Rect) error {
	x, y := 0.0, 0.0
	if e.Origin == tag.OriginCenter {
		x, y = -e.Width/2, -e.Height/2
	}
	radius := math.Min(math.Max(e.RX, e.RY), math.Min(e.Width, e.Height)/2)
	outline := func(dc *gg.Context) {
		if radius > 0 {
			dc.DrawRoundedRectangle(x, y, e.Width, e.Height, radius)
		} else {
			dc.DrawRectangle(x, y, e.Width, e.Height)
		}
	}
	f.shadow(xf, e.Paint, tag.Point{X: x, Y: y}, tag.Point{X: x + e.Width, Y: y + e.Height}, outline)
	f.paint(xf, e.Paint, outline)
	return nil
}

func (f *frame) circle(xf affine, e *tag.Circle) {
	cx, cy := 0.0, 0.0
	if e.Origin == tag.OriginTopLeft {
		cx, cy = e.Radius, e.Radius
	}
	outline := func(dc *gg.Context) { dc.DrawCircle(cx, cy, e.Radius) }
	f.shadow(xf, e.Paint, tag.Point{X: cx - e.Radius, Y: cy - e.Radius}, tag.Point{X: cx + e.Radius, Y: cy + e.Radius}, outline)
	f.paint(xf, e.Paint, outline)
}

func (f *frame) path(xf affine, e *tag.Path) error {
	polys, err := e.Polygons()
	if err != nil {
		return err
	}
	lo, hi, _ := e.Bounds()
	dx, dy := -lo.X, -lo.Y
	if e.Origin == tag.OriginCenter {
		dx, dy = -(lo.X+hi.X)/2, -(lo.Y+hi.Y)/2
	}
	outline := func(dc *gg.Context) {
		for _, poly := range polys {
			dc.NewSubPath()
			for i, pt := range poly {
				if i == 0 {
					dc.MoveTo(pt.X+dx, pt.Y+dy)
				} else {
					dc.LineTo(pt.X+dx, pt.Y+dy)
				}
			}
			if len(poly) > 2 && poly[0] == poly[len(poly)-1] {
				dc.ClosePath()
			}
		}
	}
	f.paint(xf, e.Paint, outline)
	return nil
}

// paint fills then strokes outline. gg strokes in device space, so the line
// width is scaled by hand.
func (f *frame) paint(xf affine, p tag.Paint, outline func(*gg.Context)) {
	dc := f.dc
	dc.Push()
	defer dc.Pop()
	xf.set(dc)

	if p.Fill != nil {
		outline(dc)
		dc.SetColor(fade(p.Fill, p.Opacity))
		dc.Fill()
	}
	if p.Stroke != nil && p.StrokeWidth > 0 {
		outline(dc)
		dc.SetColor(fade(p.Stroke, p.Opacity))
		dc.SetLineWidth(p.StrokeWidth * xf.scale())
		dc.Stroke()
	}
}

// shadow draws a blurred copy of outline on a layer covering only the shape's
// neighbourhood, then composites it under the shape.
func (f *frame) shadow(xf affine, p tag.Paint, lo, hi tag.Point, outline func(*gg.Context)) {
	sh := p.Shadow
	if sh == nil || sh.Color == nil {
		return
	}
	moved := xf.then(sh.OffsetX, sh.OffsetY, 1, 1)
	sigma := sh.Blur * xf.scale() / 2
	pad := math.Ceil(3*sigma) + 2

	x0, y0 := moved.apply(lo.X, lo.Y)
	x1, y1 := moved.apply(hi.X, hi.Y)
	area := image.Rect(
		int(math.Floor(math.Min(x0, x1)-pad)), int(math.Floor(math.Min(y0, y1)-pad)),
		int(math.Ceil(math.Max(x0, x1)+pad)), int(math.Ceil(math.Max(y0, y1)+pad)),
	).Intersect(image.Rect(0, 0, f.dc.Width(), f.dc.Height()))
	if area.Empty() {
		return
	}

	layer := gg.NewContext(area.Dx(), area.Dy())
	shifted := moved
	shifted.tx -= float64(area.Min.X)
	shifted.ty -= float64(area.Min.Y)
	shifted.set(layer)
	outline(layer)
	layer.SetColor(fade(sh.Color, p.Opacity))
	layer.Fill()

	var blurred image.Image = layer.Image()
	if sigma > 0 {
		blurred = imaging.Blur(blurred, sigma)
	}

	f.dc.Push()
	f.dc.Identity()
	f.dc.DrawImage(blurred, area.Min.X, area.Min.Y)
	f.dc.Pop()
}

func (f *frame) face(fn tag.Font, size float64) (font.Face, error) {
	key := faceKey{fn.Family, fn.Weight, math.Round(size*4) / 4}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	face, err := f.book.Face(fn.Family, fn.Weight, key.size)
	if err != nil {
		return nil, err
	}
	f.faces[key] = face
	return face, nil
}

// text draws at device resolution instead of scaling glyph bitmaps.
func (f *frame) text(xf affine, e *tag.Text) error {
	size := e.Font.Size * math.Abs(xf.sy)
	if size < 0.5 || e.Content == "" {
		return nil
	}
	face, err := f.face(e.Font, size)
	if err != nil {
		return err
	}

	dc := f.dc
	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.SetFontFace(face)
	dc.SetColor(fade(e.Fill, e.Opacity))

	spacing := e.CharSpacing / 1000 * size
	width := measure(dc, e.Content, spacing)
	x, y := xf.apply(0, 0)
	if e.Origin == tag.OriginCenter {
		x -= width / 2
		y -= size / 2
	}
	baseline := y + float64(face.Metrics().Ascent.Ceil())

	if spacing == 0 {
		dc.DrawString(e.Content, x, baseline)
		return nil
	}
	for _, r := range e.Content {
		s := string(r)
		dc.DrawString(s, x, baseline)
		w, _ := dc.MeasureString(s)
		x += w + spacing
	}
	return nil
}

func measure(dc *gg.Context, s string, spacing float64) float64 {
	if spacing == 0 {
		w, _ := dc.MeasureString(s)
		return w
	}
	var total float64
	for _, r := range s {
		w, _ := dc.MeasureString(string(r))
		total += w + spacing
	}
	return total
}

func (f *frame) image(xf affine, e *tag.Image) {
	dc := f.dc
	dc.Push()
	defer func() {
		dc.ResetClip()
		dc.Pop()
	}()
	xf.set(dc)

	cx, cy := 0.0, 0.0
	if e.Origin == tag.OriginTopLeft {
		cx, cy = e.Width/2, e.Height/2
	}
	if e.ClipRadius > 0 {
		dc.DrawCircle(cx, cy, e.ClipRadius)
		dc.Clip()
	}
	b := e.Source.Bounds()
	dc.Translate(cx-e.Width/2-float64(b.Min.X), cy-e.Height/2-float64(b.Min.Y))
	dc.DrawImage(e.Source, 0, 0)
}

func fade(c color.Color, opacity float64) color.Color {
	if c == nil {
		return color.Transparent
	}
	if opacity <= 0 || opacity >= 1 {
		if opacity <= 0 {
			return color.Transparent
		}
		return c
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * opacity))
	return n
}
