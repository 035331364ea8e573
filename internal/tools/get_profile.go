package tools

import (
	"context"
	"fmt"

	"clifton/internal/profile"
)

// GetProfile looks profiles up by name. Names are not unique, so the
// result may hold several profiles; the email address tells them apart.
type GetProfile struct {
	store *profile.Store
}

func NewGetProfile(store *profile.Store) *GetProfile {
	return &GetProfile{store: store}
}

func (t *GetProfile) Name() string { return "get_profile" }

func (t *GetProfile) Description() string {
	return "Retrieve employee CliftonStrengths profiles by first and last name. Multiple employees may share a name, so this can return more than one profile."
}

func (t *GetProfile) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"first_name": map[string]any{
				"type":        "string",
				"description": "Employee's first name",
			},
			"last_name": map[string]any{
				"type":        "string",
				"description": "Employee's last name",
			},
		},
		"required":             []string{"first_name", "last_name"},
		"additionalProperties": false,
	}
}

type profilesResult struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Message  string            `json:"message"`
	Profiles []profile.Profile `json:"profiles"`
}

func (t *GetProfile) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := unmarshalInput(input, &args); err != nil {
		return "", fmt.Errorf("parsing get_profile input: %w", err)
	}

	profiles, err := t.store.FindByName(ctx, args.FirstName, args.LastName)
	if err != nil {
		return marshalResult(profilesResult{
			Success:  false,
			Message:  fmt.Sprintf("Error retrieving profile: %v", err),
			Profiles: []profile.Profile{},
		})
	}

	if len(profiles) == 0 {
		return marshalResult(profilesResult{
			Success:  true,
			Count:    0,
			Message:  fmt.Sprintf("No profile found for %s %s", args.FirstName, args.LastName),
			Profiles: []profile.Profile{},
		})
	}

	return marshalResult(profilesResult{
		Success:  true,
		Count:    len(profiles),
		Message:  fmt.Sprintf("Found %d profile(s) for %s %s", len(profiles), args.FirstName, args.LastName),
		Profiles: profiles,
	})
}
