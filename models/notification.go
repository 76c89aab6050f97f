package models

type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Member  string `json:"member"`
	Read    bool   `json:"read"`
}
