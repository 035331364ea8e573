package tools

import (
	"context"
	"fmt"

	"clifton/internal/profile"
)

// GetAllProfiles returns every stored profile, for org-wide overviews.
type GetAllProfiles struct {
	store *profile.Store
}

func NewGetAllProfiles(store *profile.Store) *GetAllProfiles {
	return &GetAllProfiles{store: store}
}

func (t *GetAllProfiles) Name() string { return "get_all_profiles" }

func (t *GetAllProfiles) Description() string {
	return "Retrieve every stored CliftonStrengths profile. Useful for an overview of the whole organization's strengths."
}

func (t *GetAllProfiles) InputSchema() any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"required":             []string{},
		"additionalProperties": false,
	}
}

func (t *GetAllProfiles) Execute(ctx context.Context, input string) (string, error) {
	profiles, err := t.store.ListAll(ctx)
	if err != nil {
		return marshalResult(profilesResult{
			Success:  false,
			Message:  fmt.Sprintf("Error retrieving profiles: %v", err),
			Profiles: []profile.Profile{},
		})
	}

	return marshalResult(profilesResult{
		Success:  true,
		Count:    len(profiles),
		Message:  fmt.Sprintf("Retrieved %d profile(s) from the database", len(profiles)),
		Profiles: profiles,
	})
}
