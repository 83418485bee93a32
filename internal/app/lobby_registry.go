package app

import (
	"sync"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/rs/zerolog/log"
)

type LobbyRegistry struct {
	out core.Outbox

	mu      sync.RWMutex
	lobbies map[domain.LobbyID]*Lobby
	order   []domain.LobbyID
}

func NewLobbyRegistry(out core.Outbox) *LobbyRegistry {
	return &LobbyRegistry{
		out:     out,
		lobbies: make(map[domain.LobbyID]*Lobby),
	}
}

// Create builds a lobby owned by owner, who is already its first member
// when the lobby becomes visible to other callers.
func (r *LobbyRegistry) Create(game domain.GameType, owner domain.MemberID) *Lobby {
	lobby := NewLobby(domain.NewLobbyID(), game, r.out)
	lobby.JoinPlayer(owner)
	lobby.SetOwner(owner)

	r.mu.Lock()
	r.lobbies[lobby.ID()] = lobby
	r.order = append(r.order, lobby.ID())
	r.mu.Unlock()

	log.Info().Str("module", "app.lobbies").Str("lobby", string(lobby.ID())).Str("owner", string(owner)).Str("game", string(game)).Msg("lobby created")
	return lobby
}

func (r *LobbyRegistry) Get(id domain.LobbyID) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lobby, ok := r.lobbies[id]
	return lobby, ok
}

// FindContaining returns the oldest lobby that has member in its member set.
// It scans every lobby; a reverse index would be needed for many lobbies.
func (r *LobbyRegistry) FindContaining(member domain.MemberID) (*Lobby, bool) {
	for _, lobby := range r.ordered() {
		if lobby.Has(member) {
			return lobby, true
		}
	}
	return nil, false
}

// FindOwnedBy returns the oldest lobby owned by member that still has member in it.
func (r *LobbyRegistry) FindOwnedBy(member domain.MemberID) (*Lobby, bool) {
	for _, lobby := range r.ordered() {
		if lobby.Owner() == member && lobby.Has(member) {
			return lobby, true
		}
	}
	return nil, false
}

func (r *LobbyRegistry) List() []core.LobbyInfo {
	lobbies := r.ordered()
	out := make([]core.LobbyInfo, 0, len(lobbies))
	for _, lobby := range lobbies {
		out = append(out, lobby.Snapshot())
	}
	return out
}

func (r *LobbyRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lobbies)
}

func (r *LobbyRegistry) ordered() []*Lobby {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Lobby, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.lobbies[id])
	}
	return out
}
