// Package categorize assigns a domain.Category to a task from its title and
// description.
//
// A Strategy is a pure, total function: it never fails and always returns a
// member of the closed category set. Strategies hold no mutable state and
// are safe for unlimited concurrent use. New selects a Strategy by key and
// falls back to the keyword strategy for any key it does not recognize.
package categorize
