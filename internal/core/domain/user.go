package domain

import "time"

// User is a volunteer identified by an external messenger account id. The
// assignment engine treats the id as an opaque key; names exist only for
// roster display.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	FullName  string
	Handle    string
	CreatedAt time.Time
}
