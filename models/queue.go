package models

import "encoding/json"

// Chair-queue item types and statuses.
const (
	QueueTypeMinutes = "Minutes"
	QueueTypeLoan    = "Loan"
	QueueTypeReport  = "Report"

	QueuePending  = "Pending"
	QueueApproved = "Approved"
)

// QueueItem is a document staged for chairperson sign-off. Data carries the
// payload published on approval (news text for Minutes, report body for
// Report). Approved items are retained for audit rather than deleted.
type QueueItem struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Author    string          `json:"author"`
	Status    string          `json:"status"`
	Signature string          `json:"signature,omitempty"`
}
