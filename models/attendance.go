package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses. Pending is the schema default; records created by the
// initializer or synthesized at read time use absent.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusPending = "pending"
)

// ValidStatus reports whether s is one of the attendance statuses.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusPending
}

// Attendance is one record per (event, user) pair. The pair is backed by a
// unique compound index, so writes keyed on it are upserts.
type Attendance struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID  `bson:"eventId" json:"eventId"`
	UserID    primitive.ObjectID  `bson:"userId" json:"userId"`
	Status    string              `bson:"status" json:"status"`
	MarkedBy  *primitive.ObjectID `bson:"markedBy,omitempty" json:"markedBy"`
	CreatedAt time.Time           `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time           `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// AttendanceUser is the subject user's display projection embedded in the
// event attendance view.
type AttendanceUser struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Username  string `bson:"username" json:"username"`
	IsActive  bool   `bson:"isActive" json:"isActive"`
}

// AttendanceEntry is one row of the merged event attendance view. Entries for
// users without a persisted record carry a zero ID and nil MarkedBy.
type AttendanceEntry struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	EventID  primitive.ObjectID  `bson:"eventId" json:"eventId"`
	UserID   primitive.ObjectID  `bson:"userId" json:"userId"`
	Status   string              `bson:"status" json:"status"`
	MarkedBy *primitive.ObjectID `bson:"markedBy,omitempty" json:"markedBy"`
	User     *AttendanceUser     `bson:"user,omitempty" json:"user,omitempty"`
}

// CategorySummary is the per-event-type rollup of one user's attendance.
// Pending records count toward Total only.
type CategorySummary struct {
	EventType string `bson:"eventType" json:"eventType"`
	Total     int    `bson:"total" json:"total"`
	Present   int    `bson:"present" json:"present"`
	Absent    int    `bson:"absent" json:"absent"`
}
