package domain

// RosterEntry is one line of the human-facing "who fills what" view: a
// catalogue role with its current assignee, empty when unfilled.
type RosterEntry struct {
	RoleCode  string
	RoleName  string
	SortOrder int
	Assignee  string
	Handle    string
}

// Roster is the derived view of an event, ordered by catalogue sort order.
type Roster struct {
	EventID int64
	Entries []RosterEntry
}

// Filled counts entries that currently have an assignee.
func (r Roster) Filled() int {
	n := 0
	for _, e := range r.Entries {
		if e.Assignee != "" {
			n++
		}
	}
	return n
}
