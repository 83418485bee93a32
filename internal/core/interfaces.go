package core

import (
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/gorilla/websocket"
)

// Close codes handed to Connection.Close.
const (
	CloseNormal          = websocket.CloseNormalClosure
	CloseProtocolError   = websocket.CloseProtocolError
	ClosePolicyViolation = websocket.ClosePolicyViolation
	CloseGoingAway       = websocket.CloseGoingAway
)

// Connection abstracts one live bidirectional stream of a member (a device or a tab).
// Owned by the adapter; failures stay local to the handle.
//
//go:generate mockgen -destination=mocks/mock_connection.go -package=mocks . Connection
type Connection interface {
	Send(payload string) error
	Close(code int, reason string)
}

// Envelope is one outbound payload addressed to a member.
type Envelope struct {
	To      domain.MemberID
	Payload string
}

// Outbox accepts envelopes for delivery. Implementations may block under backpressure.
type Outbox interface {
	Send(env Envelope) error
}
