package domain

// Role is a position volunteers can fill at an event. Roles are reference
// data: seeded once, effectively immutable at runtime.
type Role struct {
	ID        int64
	Code      string
	Name      string
	Unique    bool
	SortOrder int
	// ExclusionGroups lists the named mutual-exclusion sets this role belongs
	// to. A user holding any member of a set may not acquire another member of
	// the same set at the same event.
	ExclusionGroups []string
}

// InGroup reports whether the role belongs to the named exclusion group.
func (r Role) InGroup(group string) bool {
	for _, g := range r.ExclusionGroups {
		if g == group {
			return true
		}
	}
	return false
}

// SharedGroup returns the first exclusion group both roles belong to, or
// false when the two roles never conflict.
func (r Role) SharedGroup(other Role) (string, bool) {
	for _, g := range r.ExclusionGroups {
		if other.InGroup(g) {
			return g, true
		}
	}
	return "", false
}
