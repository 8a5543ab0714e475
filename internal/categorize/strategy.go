package categorize

import (
	"strings"

	"github.com/phrazzld/smart-todo-api/internal/domain"
)

// Strategy computes the category of a task.
type Strategy interface {
	// Categorize returns the category for the given title and optional
	// description. It must be deterministic and never fail.
	Categorize(title string, description *string) domain.Category
}

// keywordSet is a fixed set of lower-case tokens.
type keywordSet map[string]struct{}

func newKeywordSet(words ...string) keywordSet {
	s := make(keywordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// intersects reports whether any token is in the set.
func (s keywordSet) intersects(tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := s[tok]; ok {
			return true
		}
	}
	return false
}

var (
	urgentKeywords = newKeywordSet(
		"asap", "urgent", "emergency", "critical", "now",
		"immediately", "today", "deadline", "important",
	)

	workKeywords = newKeywordSet(
		"meeting", "email", "report", "deadline", "project", "presentation",
		"call", "conference", "client", "review", "document", "proposal",
	)

	personalKeywords = newKeywordSet(
		"buy", "home", "family", "doctor", "gym", "shopping",
		"vacation", "appointment", "birthday", "dinner", "friend", "personal",
	)
)

// normalize joins title and description with a single space and lower-cases
// the result. A nil description contributes an empty string.
func normalize(title string, description *string) string {
	desc := ""
	if description != nil {
		desc = *description
	}
	return strings.ToLower(title + " " + desc)
}

// KeywordStrategy matches whitespace-delimited tokens against fixed keyword
// sets, checked in priority order urgent, work, personal. The first set with
// a hit decides; match counts are not compared.
type KeywordStrategy struct{}

// Categorize implements Strategy.
func (KeywordStrategy) Categorize(title string, description *string) domain.Category {
	tokens := strings.Fields(normalize(title, description))

	switch {
	case urgentKeywords.intersects(tokens):
		return domain.CategoryUrgent
	case workKeywords.intersects(tokens):
		return domain.CategoryWork
	case personalKeywords.intersects(tokens):
		return domain.CategoryPersonal
	}

	// No keyword matched. This is the same outcome as a personal match.
	return domain.CategoryPersonal
}

// timeSensitiveMarkers are matched as plain substrings, so "by" also hits
// words such as "baby" or "nearby".
var timeSensitiveMarkers = []string{"deadline", "due", "by"}

// PatternStrategy looks at punctuation and time-sensitive phrasing before
// falling back to KeywordStrategy.
type PatternStrategy struct {
	fallback KeywordStrategy
}

// Categorize implements Strategy.
func (s PatternStrategy) Categorize(title string, description *string) domain.Category {
	text := normalize(title, description)

	if strings.Contains(text, "!!") {
		return domain.CategoryUrgent
	}

	for _, marker := range timeSensitiveMarkers {
		if strings.Contains(text, marker) {
			return domain.CategoryWork
		}
	}

	return s.fallback.Categorize(title, description)
}

var (
	_ Strategy = KeywordStrategy{}
	_ Strategy = PatternStrategy{}
)
