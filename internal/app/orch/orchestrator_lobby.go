package orch

import (
	"github.com/dkeye/lobbyhub/internal/app"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinLobby is the out-of-band join path. It reaches the same lobby state as a text command would.
func (o *Orchestrator) JoinLobby(sid domain.MemberID, rawID string) error {
	lobby, err := o.lobby(rawID)
	if err != nil {
		return err
	}
	if _, ok := o.Members.Lookup(sid); !ok {
		return ErrMemberNotFound
	}
	lobby.JoinPlayer(sid)
	return nil
}

func (o *Orchestrator) QuitLobby(sid domain.MemberID, rawID string) error {
	lobby, err := o.lobby(rawID)
	if err != nil {
		return err
	}
	if _, ok := o.Members.Lookup(sid); !ok {
		return ErrMemberNotFound
	}
	lobby.LeftGame(sid)
	return nil
}

func (o *Orchestrator) lobby(rawID string) (*app.Lobby, error) {
	id, err := domain.ParseLobbyID(rawID)
	if err != nil {
		return nil, ErrLobbyNotFound
	}
	lobby, ok := o.Lobbies.Get(id)
	if !ok {
		return nil, ErrLobbyNotFound
	}
	return lobby, nil
}

func (o *Orchestrator) newLobby(sid domain.MemberID) {
	if _, ok := o.Members.Lookup(sid); !ok {
		return
	}
	o.Lobbies.Create(domain.GameUno, sid)
}

// ownedLobby returns the oldest lobby sid both belongs to and owns.
func (o *Orchestrator) ownedLobby(sid domain.MemberID) (*app.Lobby, bool) {
	if _, ok := o.Members.Lookup(sid); !ok {
		return nil, false
	}
	return o.Lobbies.FindOwnedBy(sid)
}

func (o *Orchestrator) startGame(sid domain.MemberID) {
	lobby, ok := o.ownedLobby(sid)
	if !ok {
		return
	}
	if err := lobby.StartGame(); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("lobby", string(lobby.ID())).Msg("start rejected")
	}
}

func (o *Orchestrator) endGame(sid domain.MemberID) {
	lobby, ok := o.ownedLobby(sid)
	if !ok {
		return
	}
	lobby.EndGame()
}

func (o *Orchestrator) changeName(sid domain.MemberID, name string) {
	member, ok := o.Members.Lookup(sid)
	if !ok {
		return
	}
	if err := domain.ValidateName(name, o.NameLimit); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Int("limit", o.NameLimit).Msg("rename rejected")
		return
	}
	member.Rename(name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("name", name).Msg("renamed")

	lobby, ok := o.Lobbies.FindContaining(sid)
	if !ok {
		return
	}
	lobby.Broadcast(domain.PlayerUpdate(sid))
}
