package models

// Simple append-only / append-mostly records with no state machine of their
// own. Field names are the canonical API contract regardless of which store
// backend is configured.

type News struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SignedBy   string `json:"signedBy"`
	CreatedAt  string `json:"createdAt,omitempty"`
	ApprovedAt string `json:"approvedAt,omitempty"`
}

type WelfareClaim struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Member string  `json:"member"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
}

type Transaction struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	Member string  `json:"member"`
}

type ApprovedReport struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	File     string `json:"file,omitempty"`
	SignedBy string `json:"signedBy"`
}

type LogEntry struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	By        string `json:"by"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// Signature is one role's signature blob; at most one entry per role is kept
// (upsert semantics on write).
type Signature struct {
	Role      string `json:"role"`
	Signature string `json:"signature"`
}
