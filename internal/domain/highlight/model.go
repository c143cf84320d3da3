package highlight

import "time"

// Highlight is a media clip attached to a synced fixture. Highlights are
// owned by the fixture generation they point to and are purged with it.
type Highlight struct {
	ID        int64
	FixtureID int64
	Title     string
	URL       string
	CreatedAt time.Time
}
