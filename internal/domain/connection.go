package domain

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// IsConnectionAnswer reports whether s is a valid founder response.
func IsConnectionAnswer(s string) bool {
	return s == string(ConnectionAccepted) || s == string(ConnectionRejected)
}

const MaxConnectionMessage = 500

// Connection is a request from any member to talk to a startup's founder.
// FounderID is copied from the startup when the request is made.
type Connection struct {
	ID          string
	RequesterID string
	StartupID   string
	FounderID   string
	Message     string
	Status      ConnectionStatus
	RespondedAt *time.Time
	CreatedAt   time.Time
}

type ConnectionAnswer struct {
	ConnectionID string
	Status       ConnectionStatus
	RespondedAt  time.Time
}
