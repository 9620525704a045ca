package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/youruser/tagstamp/internal/tag"
)

// Load reads a roster CSV. The header names columns; order does not matter
// and unknown columns are ignored. Recognised columns: id, full_name,
// job_title, phone, agency, avatar_url, logo_url.
func Load(path string) ([]Agent, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	agents, err := Parse(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return agents, nil
}

// Parse reads roster rows from r.
func Parse(r io.Reader) ([]Agent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("roster has no header")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("roster header has no id column")
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Agent{}
	seen := map[string]bool{}
	for n, row := range rows[1:] {
		a := Agent{
			ID: get(row, "id"),
			Profile: tag.Profile{
				FullName:  get(row, "full_name"),
				JobTitle:  get(row, "job_title"),
				Phone:     get(row, "phone"),
				Agency:    get(row, "agency"),
				AvatarURL: get(row, "avatar_url"),
				LogoURL:   get(row, "logo_url"),
			},
		}
		if a.ID == "" {
			// blank lines and rows without id are skipped
			continue
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("row %d: duplicate id %q", n+2, a.ID)
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}
