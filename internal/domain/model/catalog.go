package model

// Unit is a leaf of the grade -> semester -> unit catalog tree. The ledger
// derives "all units taught by teacher X" from these when redeeming a
// teacher-scoped code.
type Unit struct {
	ID          string // UUID
	TeacherID   string
	SubjectName string
	Grade       string
	Semester    string
}

// Lesson is a content node under a unit. Access to lessons is what
// entitlement checks ultimately gate.
type Lesson struct {
	ID     string
	UnitID string
	Title  string
	Body   string
}
