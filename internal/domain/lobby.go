package domain

import (
	"errors"

	"github.com/google/uuid"
)

var ErrBadLobbyID = errors.New("malformed lobby id")

type LobbyID string

func NewLobbyID() LobbyID {
	return LobbyID(uuid.NewString())
}

// ParseLobbyID accepts only canonical uuid strings.
func ParseLobbyID(s string) (LobbyID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrBadLobbyID
	}
	return LobbyID(id.String()), nil
}

type GameType string

const GameUno GameType = "UNO"

type GameState int

const (
	StateLobby GameState = iota
	StateInGame
	StatePostLobby
)

func (s GameState) String() string {
	switch s {
	case StateLobby:
		return "LOBBY"
	case StateInGame:
		return "IN_GAME"
	case StatePostLobby:
		return "POST_LOBBY"
	default:
		return "UNKNOWN"
	}
}

func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
