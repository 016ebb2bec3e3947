// Package engine holds the pure scoring and dialogue-analysis logic:
// utterance classification, assessment calculation and skill progress
// updates. Nothing in here touches the network or the database.
package engine

import "strings"

// keywordSet maps one clinical tag to the substrings that trigger it.
// Matching is deliberately naive substring containment; the scoring
// constants were tuned against this behavior.
type keywordSet struct {
	Tag      string
	Keywords []string
}

var topicKeywords = []keywordSet{
	{"pain_quality", []string{"sharp", "dull", "aching", "stabbing", "crushing", "pressure"}},
	{"pain_location", []string{"chest", "arm", "jaw", "back", "shoulder"}},
	{"pain_severity", []string{"severe", "mild", "moderate", "scale", "out of 10"}},
	{"pain_duration", []string{"how long", "when did", "duration", "started"}},
	{"radiation", []string{"spread", "radiate", "move", "travel"}},
	{"associated_symptoms", []string{"nausea", "vomiting", "sweating", "breathless", "dizzy"}},
	{"past_medical_history", []string{"medical history", "conditions", "diagnosed", "previous"}},
	{"medications", []string{"medication", "tablets", "drugs", "taking"}},
	{"allergies", []string{"allergies", "allergic", "allergy"}},
	{"social_history", []string{"smoke", "alcohol", "drink", "occupation", "job"}},
	{"family_history", []string{"family", "mother", "father", "siblings"}},
}

var redFlagKeywords = []keywordSet{
	{"crushing_pain", []string{"crushing", "heavy", "pressure", "tight"}},
	{"radiation_to_arm", []string{"arm", "jaw", "shoulder"}},
	{"sweating", []string{"sweating", "clammy", "perspiring"}},
	{"breathlessness", []string{"breathless", "breath", "breathing"}},
	{"duration_over_15min", []string{"hour", "hours"}},
}

// Analysis is the classification of a single student utterance.
type Analysis struct {
	Topics     []string
	RedFlags   []string
	IsRelevant bool
}

// Extract classifies a free-text student utterance into clinical topic
// tags and red-flag tags, and decides whether the question was relevant.
// A question counts as relevant when it overlaps the node's expected
// topics or touches any recognized topic at all.
func Extract(message string, expectedTopics []string) Analysis {
	lower := strings.ToLower(message)

	var topics []string
	for _, set := range topicKeywords {
		if containsAny(lower, set.Keywords) {
			topics = append(topics, set.Tag)
		}
	}

	var redFlags []string
	for _, set := range redFlagKeywords {
		if containsAny(lower, set.Keywords) {
			redFlags = append(redFlags, set.Tag)
		}
	}

	covered := intersectCount(topics, expectedTopics)

	return Analysis{
		Topics:     topics,
		RedFlags:   redFlags,
		IsRelevant: covered > 0 || len(topics) > 0,
	}
}

// MergeNew appends the members of found not already present in existing,
// preserving order. The cumulative per-session sets only ever grow.
func MergeNew(existing, found []string) []string {
	for _, tag := range found {
		if !containsString(existing, tag) {
			existing = append(existing, tag)
		}
	}
	return existing
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func intersectCount(a, b []string) int {
	n := 0
	for _, item := range a {
		if containsString(b, item) {
			n++
		}
	}
	return n
}
