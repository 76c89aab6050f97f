package models

// Poll keeps votes parallel to options; len(Votes) == len(Options) always.
// Each voter identifier appears at most once in Voters.
type Poll struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Votes    []int    `json:"votes"`
	Voters   []string `json:"voters"`
	Active   bool     `json:"active"`
	Created  string   `json:"createdAt,omitempty"`
}

func (p Poll) HasVoted(voter string) bool {
	for _, v := range p.Voters {
		if v == voter {
			return true
		}
	}
	return false
}
