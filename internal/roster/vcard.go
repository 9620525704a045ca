package roster

import (
	"strings"
)

var vcardEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`)

// VCard renders a as a vCard 3.0 contact, the payload of the contact QR.
// Empty fields are left out.
func VCard(a Agent) string {
	p := a.Profile
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}
	add := func(key, val string) {
		if val = strings.TrimSpace(val); val != "" {
			lines = append(lines, key+":"+vcardEscaper.Replace(val))
		}
	}
	add("FN", p.FullName)
	add("TITLE", p.JobTitle)
	add("ORG", p.Agency)
	add("TEL;TYPE=CELL", p.Phone)
	add("PHOTO;VALUE=URI", p.AvatarURL)
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}
