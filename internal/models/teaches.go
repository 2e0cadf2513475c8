package models

// Teaches is a directed relationship record linking one tutor to one student.
// The (tutor_id, student_id) pair is unique; the constraint lives in the
// database so concurrent inserts of the same pair serialize there.
type Teaches struct {
	ID        int64 `db:"id" json:"id"`
	TutorID   int64 `db:"tutor_id" json:"tutor_id"`
	StudentID int64 `db:"student_id" json:"student_id"`
}

// TeachesRequest asks to link one tutor to a set of students.
type TeachesRequest struct {
	TutorID    int64
	StudentIDs []int64
}

// PairError reports one (tutor, student) pair that could not be linked.
type PairError struct {
	Pair   [2]int64 `json:"pair"`
	Reason string   `json:"reason"`
}

// RelationshipReport is the per-item outcome of a relationship batch. A batch
// never fails as a whole: each pair lands in exactly one of the two lists.
type RelationshipReport struct {
	Success [][2]int64  `json:"success,omitempty"`
	Errors  []PairError `json:"error,omitempty"`
}
