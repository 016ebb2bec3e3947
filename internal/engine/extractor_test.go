package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Topics(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		topics   []string
		redFlags []string
	}{
		{
			name:     "pain quality and location",
			message:  "Is the pain sharp, and does it sit in your chest?",
			topics:   []string{"pain_quality", "pain_location"},
			redFlags: nil,
		},
		{
			name:     "duration phrasing",
			message:  "How long has this been going on?",
			topics:   []string{"pain_duration"},
			redFlags: nil,
		},
		{
			name:     "crushing pain is quality and red flag",
			message:  "Would you describe it as a crushing sensation?",
			topics:   []string{"pain_quality"},
			redFlags: []string{"crushing_pain"},
		},
		{
			name:     "radiation to arm",
			message:  "Does the pain spread to your arm or jaw?",
			topics:   []string{"pain_location", "radiation"},
			redFlags: []string{"radiation_to_arm"},
		},
		{
			name:     "associated symptoms and sweating",
			message:  "Any nausea or sweating with it?",
			topics:   []string{"associated_symptoms"},
			redFlags: []string{"sweating"},
		},
		{
			name:     "substring containment is deliberate",
			message:  "I bought a pencil sharpener",
			topics:   []string{"pain_quality"},
			redFlags: nil,
		},
		{
			name:     "nothing recognized",
			message:  "Good morning, please sit down",
			topics:   nil,
			redFlags: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.message, nil)
			assert.Equal(t, tt.topics, got.Topics)
			assert.Equal(t, tt.redFlags, got.RedFlags)
		})
	}
}

func TestExtract_Relevance(t *testing.T) {
	// Overlapping the node's expected topics counts.
	got := Extract("how long has the pain lasted", []string{"pain_duration"})
	assert.True(t, got.IsRelevant)

	// Any recognized topic counts even without node overlap.
	got = Extract("do you smoke?", []string{"pain_duration"})
	assert.True(t, got.IsRelevant)

	// No trigger substrings at all means irrelevant and empty sets.
	got = Extract("hello there", []string{"pain_duration"})
	assert.False(t, got.IsRelevant)
	assert.Empty(t, got.Topics)
	assert.Empty(t, got.RedFlags)
}

func TestExtract_CaseInsensitive(t *testing.T) {
	got := Extract("Does it RADIATE anywhere?", nil)
	assert.Contains(t, got.Topics, "radiation")
}

func TestMergeNew(t *testing.T) {
	covered := []string{"pain_location"}

	covered = MergeNew(covered, []string{"pain_quality", "pain_location"})
	assert.Equal(t, []string{"pain_location", "pain_quality"}, covered)

	// Re-ingesting the same tags never shrinks or reorders the set.
	covered = MergeNew(covered, []string{"pain_location"})
	assert.Equal(t, []string{"pain_location", "pain_quality"}, covered)

	covered = MergeNew(covered, nil)
	assert.Len(t, covered, 2)
}
