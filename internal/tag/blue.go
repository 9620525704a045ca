package tag

// blueTag is a white pill with a blue vertical bar between avatar and text.
type blueTag struct{}

func (blueTag) Name() string { return "tag_blue" }

func (blueTag) layout(p Profile) []Element {
	primary := rgb(0x0984e3)
	ink := rgb(0x2d3436)
	textLeft := 165 - hw

	els := []Element{
		&Rect{
			Placement: at(0, 0, OriginCenter),
			Paint: Paint{
				Fill:    rgb(0xffffff),
				Opacity: 1,
				Shadow:  &Shadow{Color: rgba(0, 0, 0, 0.1), Blur: 15, OffsetY: 5},
			},
			Width: TagWidth, Height: TagHeight,
			RX: 65, RY: 65,
		},
		&Rect{
			Placement: at(140-hw, 35-hh, OriginTopLeft),
			Paint:     Paint{Fill: primary, Opacity: 1},
			Width:     4, Height: 60,
			RX: 2, RY: 2,
		},
		avatarSlot(p, 75-hw, 65-hh, 110),
	}
	if p.LogoURL != "" {
		els = append(els, logoSlot(p.LogoURL))
	}
	els = append(els,
		text(upper(p.Value(FieldFullName)), textLeft, 18-hh,
			Font{Family: "Montserrat", Weight: 900, Size: 24}, ink, 0),
		text(upper(p.Value(FieldJobTitle)), textLeft, 50-hh,
			Font{Family: "Inter", Weight: 800, Size: 12}, rgb(0x636e72), 50),
		text("Zalo: "+p.Value(FieldPhone), textLeft, 72-hh,
			Font{Family: "Inter", Weight: 800, Size: 18}, ink, 0),
	)
	if p.LogoURL == "" {
		els = append(els, text(upper(p.Value(FieldAgency)), textLeft, 100-hh,
			Font{Weight: 900, Size: 9}, primary, 100))
	}
	return els
}
