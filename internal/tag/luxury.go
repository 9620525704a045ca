package tag

// luxuryTag is a black card with a gold border, a hexagonal avatar frame and
// a gold rule along the bottom. It has no agency line.
type luxuryTag struct{}

func (luxuryTag) Name() string { return "tag_luxury" }

const hexagon = "M 75 25 L 110 45 L 110 85 L 75 105 L 40 85 L 40 45 Z"

func (luxuryTag) layout(p Profile) []Element {
	gold := rgb(0xc5a059)
	textLeft := 160 - hw

	els := []Element{
		&Rect{
			Placement: at(0, 0, OriginCenter),
			Paint: Paint{
				Fill:        rgb(0x0a0a0a),
				Stroke:      gold,
				StrokeWidth: 2,
				Opacity:     1,
				Shadow:      &Shadow{Color: rgba(197, 160, 89, 0.4), Blur: 30, OffsetY: 10},
			},
			Width: TagWidth, Height: TagHeight,
			RX: 12, RY: 12,
		},
		&Rect{
			Placement: at(20-hw, (TagHeight-15)-hh, OriginTopLeft),
			Paint:     Paint{Fill: gold, Opacity: 1},
			Width:     TagWidth - 40, Height: 3,
			RX: 1.5, RY: 1.5,
		},
		&Path{
			Placement: at(75-hw, 65-hh, OriginCenter),
			Paint:     Paint{Stroke: gold, StrokeWidth: 1.5, Opacity: 1},
			D:         hexagon,
		},
		avatarSlot(p, 75-hw, 65-hh, 104),
	}
	if p.LogoURL != "" {
		els = append(els, logoSlot(p.LogoURL))
	}

	title := text(upper(p.Value(FieldJobTitle)), textLeft, 52-hh,
		Font{Family: "Inter", Weight: 800, Size: 10}, gold, 100)
	title.Opacity = 0.7

	els = append(els,
		text(upper(p.Value(FieldFullName)), textLeft, 22-hh,
			Font{Family: "Montserrat", Weight: 900, Size: 24}, gold, 50),
		title,
		&Rect{
			Placement: at(textLeft, 70-hh, OriginTopLeft),
			Paint:     Paint{Fill: gold, Opacity: 0.2},
			Width:     TagWidth - (textLeft + hw) - 40, Height: 1,
		},
		text("HOTLINE: "+p.Value(FieldPhone), textLeft, 80-hh,
			Font{Family: "Inter", Weight: 800, Size: 15}, rgb(0xffffff), 50),
	)
	return els
}
