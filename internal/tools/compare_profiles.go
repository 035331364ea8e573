package tools

import (
	"context"
	"fmt"
	"strings"

	"clifton/internal/analysis"
	"clifton/internal/profile"
)

// CompareProfiles ranks candidate profiles by similarity to a target.
// Pure computation, no store access.
type CompareProfiles struct{}

func NewCompareProfiles() *CompareProfiles {
	return &CompareProfiles{}
}

func (t *CompareProfiles) Name() string { return "compare_profiles" }

func (t *CompareProfiles) Description() string {
	return "Compare a target CliftonStrengths profile against other profiles and rank them by similarity. Lower similarity_score means more alike."
}

func (t *CompareProfiles) InputSchema() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"target_profile": profileSchema(),
			"other_profiles": map[string]any{
				"type":        "array",
				"items":       profileSchema(),
				"description": "Profiles to rank against the target",
			},
		},
		"required":             []string{"target_profile", "other_profiles"},
		"additionalProperties": false,
	}
}

type compareResult struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	Target      string                `json:"target,omitempty"`
	Comparisons []analysis.Comparison `json:"comparisons,omitempty"`
}

func (t *CompareProfiles) Execute(ctx context.Context, input string) (string, error) {
	var args struct {
		Target profile.Profile   `json:"target_profile"`
		Others []profile.Profile `json:"other_profiles"`
	}
	if err := unmarshalInput(input, &args); err != nil {
		return "", fmt.Errorf("parsing compare_profiles input: %w", err)
	}

	if len(args.Target.Strengths) < profile.ThemeCount {
		return marshalResult(compareResult{
			Success: false,
			Message: fmt.Sprintf("Target profile must include all %d strengths, found %d",
				profile.ThemeCount, len(args.Target.Strengths)),
		})
	}

	comparisons := analysis.Compare(args.Target, args.Others)

	targetName := strings.TrimSpace(args.Target.FirstName + " " + args.Target.LastName)
	if targetName == "" {
		targetName = "Target Profile"
	}

	return marshalResult(compareResult{
		Success:     true,
		Message:     fmt.Sprintf("Compared %d profile(s) against %s", len(comparisons), targetName),
		Target:      targetName,
		Comparisons: comparisons,
	})
}
