package domain

import (
	"errors"
	"strings"
)

// Settings is the stored API configuration for both remote services.
// The store keeping it is encrypted at rest; the core never writes
// credentials anywhere else.
type Settings struct {
	TickURL         string
	TickEmail       string
	TickPassword    string
	FreshBooksURL   string
	FreshBooksToken string
}

// Validate returns an error if the settings are incomplete
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.TickURL) == "" {
		return errors.New("tick URL is required")
	}
	if strings.TrimSpace(s.TickEmail) == "" {
		return errors.New("tick email is required")
	}
	if s.TickPassword == "" {
		return errors.New("tick password is required")
	}
	return nil
}

// HasFreshBooks reports whether the invoicing side is configured.
// Login only needs the Tick half; invoicing needs both.
func (s *Settings) HasFreshBooks() bool {
	return strings.TrimSpace(s.FreshBooksURL) != "" && s.FreshBooksToken != ""
}
