package tag

const (
	hw = TagWidth / 2
	hh = TagHeight / 2
)

// orangeTag is a white pill with an amber avatar ring and an amber agency line.
type orangeTag struct{}

func (orangeTag) Name() string { return "tag_orange" }

func (orangeTag) layout(p Profile) []Element {
	primary := rgb(0xf6b21b)
	ink := rgb(0x1a1a1a)
	textLeft := 145 - hw

	els := []Element{
		&Rect{
			Placement: at(0, 0, OriginCenter),
			Paint: Paint{
				Fill:    rgb(0xffffff),
				Opacity: 1,
				Shadow:  &Shadow{Color: rgba(0, 0, 0, 0.15), Blur: 20, OffsetY: 8},
			},
			Width: TagWidth, Height: TagHeight,
			RX: TagHeight / 2, RY: TagHeight / 2,
		},
		&Circle{
			Placement: at(65-hw, 65-hh, OriginCenter),
			Paint:     Paint{Fill: primary, Opacity: 1},
			Radius:    55,
		},
		avatarSlot(p, 65-hw, 65-hh, 104),
	}
	if p.LogoURL != "" {
		els = append(els, logoSlot(p.LogoURL))
	}
	els = append(els,
		text(upper(p.Value(FieldFullName)), textLeft, 22-hh,
			Font{Family: "Montserrat", Weight: 900, Size: 24}, ink, 0),
		text(upper(p.Value(FieldJobTitle)), textLeft, 52-hh,
			Font{Family: "Inter", Weight: 800, Size: 13}, rgb(0x64748b), 50),
		text("HOTLINE: "+p.Value(FieldPhone), textLeft, 72-hh,
			Font{Family: "Inter", Weight: 800, Size: 15}, ink, 0),
	)
	if p.LogoURL == "" {
		els = append(els, text(upper(p.Value(FieldAgency)), textLeft, 96-hh,
			Font{Family: "Inter", Weight: 900, Size: 10}, primary, 100))
	}
	return els
}
