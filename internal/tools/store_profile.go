package tools

import (
	"context"
	"fmt"

	"clifton/internal/profile"
)

// StoreProfile stores or replaces an employee's strengths profile.
type StoreProfile struct {
	store *profile.Store
}

func NewStoreProfile(store *profile.Store) *StoreProfile {
	return &StoreProfile{store: store}
}

func (t *StoreProfile) Name() string { return "store_profile" }

func (t *StoreProfile) Description() string {
	return "Store or update an employee's CliftonStrengths profile: name, unique email address, and all 34 themes in ranked order. Re-storing an existing email replaces the previous profile."
}

func (t *StoreProfile) InputSchema() any {
	return profileSchema()
}

type storeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (t *StoreProfile) Execute(ctx context.Context, input string) (string, error) {
	var p profile.Profile
	if err := unmarshalInput(input, &p); err != nil {
		return "", fmt.Errorf("parsing store_profile input: %w", err)
	}

	if err := t.store.Put(ctx, p); err != nil {
		return marshalResult(storeResult{
			Success: false,
			Message: fmt.Sprintf("Error storing profile: %v", err),
		})
	}

	return marshalResult(storeResult{
		Success: true,
		Message: fmt.Sprintf("Profile stored successfully for %s %s (%s)",
			p.FirstName, p.LastName, p.EmailAddress),
	})
}
