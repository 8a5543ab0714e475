package categorize

// Recognized strategy keys.
const (
	KeyKeyword = "keyword"
	KeyPattern = "pattern"

	// DefaultKey is the key the task service is built with unless
	// configuration says otherwise.
	DefaultKey = KeyKeyword
)

// Keys returns the recognized strategy keys.
func Keys() []string {
	return []string{KeyKeyword, KeyPattern}
}

// IsKnown reports whether key selects a strategy other than the fallback.
func IsKnown(key string) bool {
	switch key {
	case KeyKeyword, KeyPattern:
		return true
	default:
		return false
	}
}

// New returns the Strategy registered under key. Unknown keys, including
// the empty string, resolve to KeywordStrategy rather than an error.
func New(key string) Strategy {
	switch key {
	case KeyPattern:
		return PatternStrategy{}
	default:
		return KeywordStrategy{}
	}
}
