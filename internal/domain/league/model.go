package league

import (
	"fmt"
	"strings"
)

// League is a competition resolved from the sport data provider.
type League struct {
	ID         int64
	ExternalID int64
	Name       string
	Country    string
	LogoURL    string
	Season     int
}

func (l League) Validate() error {
	if l.ExternalID <= 0 {
		return fmt.Errorf("league external id must be greater than zero")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// Matches reports whether the league has the given name and country,
// ignoring case and surrounding whitespace.
func (l League) Matches(name, country string) bool {
	return strings.EqualFold(strings.TrimSpace(l.Name), strings.TrimSpace(name)) &&
		strings.EqualFold(strings.TrimSpace(l.Country), strings.TrimSpace(country))
}
