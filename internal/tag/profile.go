package tag

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Profile is the agent identity printed on a tag. Every field is optional.
type Profile struct {
	FullName  string `json:"full_name" toml:"full_name"`
	JobTitle  string `json:"job_title" toml:"job_title"`
	Phone     string `json:"phone" toml:"phone"`
	Agency    string `json:"agency" toml:"agency"`
	AvatarURL string `json:"avatar_url" toml:"avatar_url"`
	LogoURL   string `json:"logo_url" toml:"logo_url"`
}

// Field names a Profile field that has a fallback.
type Field int

const (
	FieldFullName Field = iota
	FieldJobTitle
	FieldPhone
	FieldAgency
	FieldAvatarURL
)

var fallbacks = [...]string{
	FieldFullName:  "ĐẠI LÝ BĐS",
	FieldJobTitle:  "MÔI GIỚI TẬN TÂM",
	FieldPhone:     "09xx.xxx.xxx",
	FieldAgency:    "CENLAND GROUP",
	FieldAvatarURL: "https://i.pravatar.cc/150?img=11",
}

// Fallback returns the text used when f is absent from a profile.
func Fallback(f Field) string {
	if f < 0 || int(f) >= len(fallbacks) {
		return ""
	}
	return fallbacks[f]
}

// Value returns the field, or its fallback when empty.
func (p Profile) Value(f Field) string {
	var v string
	switch f {
	case FieldFullName:
		v = p.FullName
	case FieldJobTitle:
		v = p.JobTitle
	case FieldPhone:
		v = p.Phone
	case FieldAgency:
		v = p.Agency
	case FieldAvatarURL:
		v = p.AvatarURL
	}
	if v == "" {
		return Fallback(f)
	}
	return v
}

// upper is Vietnamese-aware so that đ, ạ and friends map correctly.
// A Caser keeps state, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.Vietnamese).String(s)
}
