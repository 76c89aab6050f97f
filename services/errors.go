package services

import "errors"

// Sentinel errors shared by the services. Handlers translate these to HTTP
// statuses; nothing more structured crosses the API boundary.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateIdentity  = errors.New("member already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrInvalidOption      = errors.New("invalid option")
	ErrPollInactive       = errors.New("poll is not active")
)

// Collection names as stored by the backend.
const (
	CollMembers         = "members"
	CollLoans           = "loans"
	CollChairQueue      = "chairqueue"
	CollPolls           = "polls"
	CollNotifications   = "notifications"
	CollNews            = "news"
	CollWelfare         = "welfare"
	CollTransactions    = "transactions"
	CollApprovedReports = "approvedreports"
	CollLogs            = "logs"
	CollSignatures      = "signatures"
)
