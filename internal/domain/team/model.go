package team

import (
	"fmt"
	"strings"
)

// Team is a real football club referenced by synced fixtures.
type Team struct {
	ID         int64
	ExternalID int64
	Name       string
	LogoURL    string
}

func (t Team) Validate() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("team external id must be greater than zero")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
