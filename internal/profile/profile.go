// Package profile holds the CliftonStrengths profile model and its
// SQLite-backed store. A profile is keyed by email address; first and
// last name together form a non-unique secondary lookup key.
package profile

import (
	"errors"
	"fmt"
	"net/mail"
)

// ThemeCount is the number of themes in a complete assessment.
const ThemeCount = 34

// Themes is the fixed CliftonStrengths vocabulary. Every stored profile
// ranks all 34 of these, strongest first.
var Themes = []string{
	"Achiever", "Activator", "Adaptability", "Analytical", "Arranger",
	"Belief", "Command", "Communication", "Competition", "Connectedness",
	"Consistency", "Context", "Deliberative", "Developer", "Discipline",
	"Empathy", "Focus", "Futuristic", "Harmony", "Ideation",
	"Includer", "Individualization", "Input", "Intellection", "Learner",
	"Maximizer", "Positivity", "Relator", "Responsibility", "Restorative",
	"Self-Assurance", "Significance", "Strategic", "Woo",
}

var themeSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Themes))
	for _, t := range Themes {
		m[t] = struct{}{}
	}
	return m
}()

// Profile is one employee's strengths assessment.
type Profile struct {
	EmailAddress string   `json:"email_address"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Strengths    []string `json:"strengths"`
}

// ErrUnavailable marks a backing-store connectivity or service failure.
// Callers match it with errors.Is.
var ErrUnavailable = errors.New("profile store unavailable")

// ValidationError reports malformed input caught before it reaches the
// store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid profile: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the profile invariants: a well-formed email, non-empty
// names, and exactly 34 unique strengths drawn from the theme vocabulary.
func (p Profile) Validate() error {
	if p.FirstName == "" || p.LastName == "" {
		return &ValidationError{Reason: "first_name and last_name are required"}
	}
	if _, err := mail.ParseAddress(p.EmailAddress); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("malformed email address %q", p.EmailAddress)}
	}
	if len(p.Strengths) != ThemeCount {
		return &ValidationError{
			Reason: fmt.Sprintf("expected %d strengths, got %d", ThemeCount, len(p.Strengths)),
		}
	}
	seen := make(map[string]struct{}, ThemeCount)
	for _, s := range p.Strengths {
		if _, ok := themeSet[s]; !ok {
			return &ValidationError{Reason: fmt.Sprintf("unknown theme %q", s)}
		}
		if _, dup := seen[s]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate theme %q", s)}
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Rank returns the 1-based rank of theme in the profile, or 0 when the
// theme is absent.
func (p Profile) Rank(theme string) int {
	for i, s := range p.Strengths {
		if s == theme {
			return i + 1
		}
	}
	return 0
}
