package tag

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownVariant is returned by ParseVariant for names outside the three
// known templates.
var ErrUnknownVariant = errors.New("unknown tag variant")

// Variant selects one of the three tag templates. The set is closed: the only
// values are TagOrange, TagLuxury and TagBlue.
type Variant interface {
	Name() string
	layout(p Profile) []Element
}

var (
	TagOrange Variant = orangeTag{}
	TagLuxury Variant = luxuryTag{}
	TagBlue   Variant = blueTag{}
)

// Variants lists every template in display order.
func Variants() []Variant {
	return []Variant{TagOrange, TagLuxury, TagBlue}
}

// ParseVariant maps a name such as "tag_blue" to its Variant.
func ParseVariant(name string) (Variant, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, v := range Variants() {
		if v.Name() == n {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Layout returns the template for p in logical space, with image slots still
// unresolved. Every call allocates fresh elements. v must be one of the three
// variant values; nil panics.
func Layout(v Variant, p Profile) []Element {
	mustVariant(v)
	return v.layout(p)
}

func mustVariant(v Variant) {
	if v == nil {
		panic("tag: nil Variant")
	}
}

// logoSlot is shared by all templates: right edge, vertically centred, 50 high.
func logoSlot(url string) *Slot {
	return &Slot{
		Placement: at(TagWidth/2-60, 65-TagHeight/2, OriginCenter),
		Role:      SlotLogo,
		URL:       url,
		Fit:       50,
	}
}

func avatarSlot(p Profile, left, top, diameter float64) *Slot {
	return &Slot{
		Placement: at(left, top, OriginCenter),
		Role:      SlotAvatar,
		URL:       p.Value(FieldAvatarURL),
		Fit:       diameter,
	}
}

func text(content string, left, top float64, f Font, fill color.Color, spacing float64) *Text {
	return &Text{
		Placement:   at(left, top, OriginTopLeft),
		Paint:       Paint{Fill: fill, Opacity: 1},
		Content:     content,
		Font:        f,
		CharSpacing: spacing,
	}
}
