package roster

import "github.com/youruser/tagstamp/internal/tag"

// Agent is one row of the roster: an id plus the profile printed on the tag.
type Agent struct {
	ID      string      `json:"id"`
	Profile tag.Profile `json:"profile"`
}
