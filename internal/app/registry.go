package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Member groups every live connection of one identity.
type Member struct {
	ID      domain.MemberID
	Ordinal int

	mu         sync.RWMutex
	conns      []core.Connection
	customName string
	named      bool
}

func (m *Member) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.named {
		return m.customName
	}
	return domain.DefaultName(m.Ordinal)
}

// Rename overrides the default name. Length policy belongs to the caller.
func (m *Member) Rename(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customName = name
	m.named = true
}

func (m *Member) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Send delivers payload to every live connection of the member.
// A failing connection is closed with a protocol error; the others still receive the payload.
func (m *Member) Send(payload string) {
	m.mu.RLock()
	conns := slices.Clone(m.conns)
	m.mu.RUnlock()

	var wg conc.WaitGroup
	for _, c := range conns {
		wg.Go(func() {
			if err := c.Send(payload); err != nil {
				log.Warn().
					Err(err).
					Str("module", "app.member").
					Str("sid", string(m.ID)).
					Msg("send failed, closing connection")
				c.Close(core.CloseProtocolError, "")
			}
		})
	}
	wg.Wait()
}

func (m *Member) addConn(c core.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.conns, c) {
		return
	}
	m.conns = append(m.conns, c)
}

// removeConn reports how many connections are left.
func (m *Member) removeConn(c core.Connection) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.conns, c); i >= 0 {
		m.conns = slices.Delete(m.conns, i, i+1)
	}
	return len(m.conns)
}

// MemberRegistry maps identities to their live Member records.
// Records with no connections are dropped; ordinals are remembered so an
// identity keeps its default name across full reconnects.
type MemberRegistry struct {
	mu       sync.RWMutex
	members  map[domain.MemberID]*Member
	ordinals map[domain.MemberID]int
	next     int
}

func NewMemberRegistry() *MemberRegistry {
	return &MemberRegistry{
		members:  make(map[domain.MemberID]*Member),
		ordinals: make(map[domain.MemberID]int),
	}
}

func (r *MemberRegistry) Register(id domain.MemberID, conn core.Connection) *Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		ordinal, seen := r.ordinals[id]
		if !seen {
			r.next++
			ordinal = r.next
			r.ordinals[id] = ordinal
		}
		m = &Member{ID: id, Ordinal: ordinal}
		r.members[id] = m
		log.Info().Str("module", "app.registry").Str("sid", string(id)).Int("ordinal", ordinal).Msg("member created")
	}
	m.addConn(conn)
	log.Debug().Str("module", "app.registry").Str("sid", string(id)).Int("connections", m.ConnectionCount()).Msg("connection registered")
	return m
}

func (r *MemberRegistry) Unregister(id domain.MemberID, conn core.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return
	}
	if m.removeConn(conn) == 0 {
		delete(r.members, id)
		log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("member removed")
	}
}

func (r *MemberRegistry) Lookup(id domain.MemberID) (*Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	return m, ok
}

func (r *MemberRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *MemberRegistry) Snapshot() []core.MemberDTO {
	r.mu.RLock()
	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	r.mu.RUnlock()

	out := make([]core.MemberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, core.MemberDTO{ID: m.ID, Name: m.Name(), Connections: m.ConnectionCount()})
	}
	slices.SortFunc(out, func(a, b core.MemberDTO) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}
