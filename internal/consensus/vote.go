package consensus

// Vote is one participant's position in a consensus round. Votes are
// constructed by the caller and never mutated.
type Vote struct {
	// ID uniquely identifies the participant within a vote set.
	ID string

	// Name is the participant's display name.
	Name string

	// Agree is the participant's boolean position.
	Agree bool

	// Justification is optional free text supporting the position.
	Justification string

	// Weight is accepted for protocol compatibility but deliberately not
	// consulted by threshold arithmetic; wiring it in would change
	// consensus outcomes.
	Weight float64
}

// NewVote builds a vote with the default weight of 1.0.
func NewVote(id, name string, agree bool) Vote {
	return Vote{ID: id, Name: name, Agree: agree, Weight: 1.0}
}

// countAgreeing returns how many votes agree.
func countAgreeing(votes []Vote) int {
	count := 0

	for _, v := range votes {
		if v.Agree {
			count++
		}
	}

	return count
}
