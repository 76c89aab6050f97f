package models

// Loan statuses in approval order. A loan advances one stage at a time and
// only by the role owning the next stage; Rejected is reachable from any
// non-terminal stage.
const (
	LoanPending           = "Pending"
	LoanTreasurerApproved = "Treasurer Approved"
	LoanSecretaryApproved = "Secretary Approved"
	LoanChairApproved     = "Chair Approved"
	LoanRejected          = "Rejected"
)

type LoanRequest struct {
	ID      string  `json:"id"`
	Amount  float64 `json:"amount"`
	Purpose string  `json:"purpose"`
	Member  string  `json:"member"`
	Status  string  `json:"status"`
	Date    string  `json:"date"`
	Notes   string  `json:"notes,omitempty"`
}

// Terminal reports whether the loan can accept no further transitions.
func (l LoanRequest) Terminal() bool {
	return l.Status == LoanChairApproved || l.Status == LoanRejected
}
