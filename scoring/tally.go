package scoring

import "civicgrid/models"

const (
	// rejectionFloor is the minimum number of invalid votes before a task
	// can be rejected; invalid votes must also outnumber valid ones.
	rejectionFloor = 5
	// promotionFloor is the number of valid votes that promotes a task to OPEN.
	promotionFloor = 3
)

// Tally is a recount of a task's committed vote rows. Tallies are always
// rebuilt from the votes table, never cached or incremented in memory.
type Tally struct {
	Valid   int
	Invalid int
}

// CountVotes rebuilds a tally from vote rows.
func CountVotes(votes []models.Vote) Tally {
	var t Tally
	for _, v := range votes {
		if v.Value {
			t.Valid++
		} else {
			t.Invalid++
		}
	}
	return t
}

// ShouldReject reports whether the community has rejected the task.
func (t Tally) ShouldReject() bool {
	return t.Invalid >= rejectionFloor && t.Invalid > t.Valid
}

// ShouldPromote reports whether the task has enough confirmations to open.
// Rejection wins when both hold; EvaluateTask checks ShouldReject first.
func (t Tally) ShouldPromote() bool {
	return t.Valid >= promotionFloor
}
