package core

import "github.com/dkeye/lobbyhub/internal/domain"

// LobbyInfo is a read-only view of a lobby for APIs.
type LobbyInfo struct {
	ID      domain.LobbyID    `json:"id"`
	Game    domain.GameType   `json:"game"`
	Owner   domain.MemberID   `json:"owner"`
	State   domain.GameState  `json:"state"`
	Members []domain.MemberID `json:"members"`
}

// MemberDTO is a read-only view of a connected member (no transport fields).
type MemberDTO struct {
	ID          domain.MemberID `json:"id"`
	Name        string          `json:"name"`
	Connections int             `json:"connections"`
}
