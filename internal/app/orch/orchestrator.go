package orch

import (
	"errors"

	"github.com/dkeye/lobbyhub/internal/app"
	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrMemberNotFound = errors.New("member not found")
)

// Orchestrator is the boundary the transport layer talks to.
// It routes inbound commands to the member and lobby registries.
type Orchestrator struct {
	Members *app.MemberRegistry
	Lobbies *app.LobbyRegistry

	// NameLimit caps display names in bytes; zero leaves them unbounded.
	NameLimit int
}

func (o *Orchestrator) OnConnect(sid domain.MemberID, conn core.Connection) {
	o.Members.Register(sid, conn)
}

// OnDisconnect only forgets the connection. The member stays in any lobby it joined.
func (o *Orchestrator) OnDisconnect(sid domain.MemberID, conn core.Connection) {
	o.Members.Unregister(sid, conn)
}

func (o *Orchestrator) OnTextFrame(sid domain.MemberID, text string) {
	cmd := ParseCommand(text)
	switch cmd.Kind {
	case CmdStructured:
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("frame", text).Msg("structured frame")
	case CmdGameNew:
		o.newLobby(sid)
	case CmdGameStart:
		o.startGame(sid)
	case CmdGameEnd:
		o.endGame(sid)
	case CmdPlayerChangeName:
		o.changeName(sid, cmd.Args[0])
	case CmdUnknown:
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("unknown command dropped")
	}
}
