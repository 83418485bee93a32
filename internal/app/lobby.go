package app

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrInvalidTransition = errors.New("invalid lobby state transition")

// Lobby is a group of members sharing one game.
// Every operation notifies the members present before the mutation, then mutates.
// Notification and mutation happen under one lock, so the notified set is exact.
type Lobby struct {
	id   domain.LobbyID
	game domain.GameType
	out  core.Outbox

	mu      sync.Mutex
	owner   domain.MemberID
	state   domain.GameState
	members map[domain.MemberID]struct{}
}

func NewLobby(id domain.LobbyID, game domain.GameType, out core.Outbox) *Lobby {
	return &Lobby{
		id:      id,
		game:    game,
		out:     out,
		state:   domain.StateLobby,
		members: make(map[domain.MemberID]struct{}),
	}
}

func (l *Lobby) ID() domain.LobbyID     { return l.id }
func (l *Lobby) Game() domain.GameType { return l.game }

func (l *Lobby) Owner() domain.MemberID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

func (l *Lobby) State() domain.GameState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lobby) Has(member domain.MemberID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.members[member]
	return ok
}

func (l *Lobby) Members() []domain.MemberID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Sorted(maps.Keys(l.members))
}

// SetOwner is a no-op unless member already belongs to the lobby.
func (l *Lobby) SetOwner(member domain.MemberID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.members[member]; ok {
		l.owner = member
	}
}

// StartGame is only valid from the lobby state.
func (l *Lobby) StartGame() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != domain.StateLobby {
		return ErrInvalidTransition
	}
	l.broadcastLocked(domain.EventStart)
	l.state = domain.StateInGame
	l.logger().Info().Msg("game started")
	return nil
}

// EndGame moves the lobby to its terminal state from any state.
func (l *Lobby) EndGame() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcastLocked(domain.EventEnd)
	l.state = domain.StatePostLobby
	l.logger().Info().Msg("game ended")
}

// JoinPlayer notifies the current members, then adds member.
// The joining member does not receive its own join.
func (l *Lobby) JoinPlayer(member domain.MemberID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcastLocked(domain.EventJoin)
	l.members[member] = struct{}{}
	l.logger().Info().Str("sid", string(member)).Msg("member joined")
}

// LeftGame notifies the current members, leaver included, then removes member.
func (l *Lobby) LeftGame(member domain.MemberID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcastLocked(domain.EventQuit)
	delete(l.members, member)
	l.logger().Info().Str("sid", string(member)).Msg("member left")
}

// Broadcast sends payload to every current member.
func (l *Lobby) Broadcast(payload string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.broadcastLocked(payload)
}

func (l *Lobby) Snapshot() core.LobbyInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.LobbyInfo{
		ID:      l.id,
		Game:    l.game,
		Owner:   l.owner,
		State:   l.state,
		Members: slices.Sorted(maps.Keys(l.members)),
	}
}

func (l *Lobby) broadcastLocked(payload string) {
	for member := range l.members {
		if err := l.out.Send(core.Envelope{To: member, Payload: payload}); err != nil {
			l.logger().Warn().Err(err).Str("payload", payload).Msg("broadcast aborted")
			return
		}
	}
}

func (l *Lobby) logger() *zerolog.Logger {
	lg := log.With().Str("module", "app.lobby").Str("lobby", string(l.id)).Logger()
	return &lg
}
