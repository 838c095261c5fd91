package domain

import "time"

// Location is a venue where the recurring event is held.
type Location struct {
	ID     int64
	Name   string
	Active bool
}

// Event is one instance of the recurring activity, unique per (location, date).
// Events are created lazily the first time a location is selected for the
// current cycle date and are never deleted during normal operation.
type Event struct {
	ID         int64
	LocationID int64
	Date       time.Time
}
