package domain

// Category classifies a task. The set is closed.
type Category string

// Possible category values
const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryUrgent   Category = "urgent"
)

// Categories returns every valid category in a stable order.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryUrgent}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryUrgent:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
