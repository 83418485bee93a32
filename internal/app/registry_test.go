package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/core/mocks"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegistryDropsMemberWithoutConnections(t *testing.T) {
	reg := NewMemberRegistry()
	conn := &fakeConn{}

	reg.Register("x", conn)
	_, ok := reg.Lookup("x")
	require.True(t, ok)

	reg.Unregister("x", conn)
	_, ok = reg.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Count())
}

func TestRegistryKeepsMemberWhileOneConnectionLeft(t *testing.T) {
	reg := NewMemberRegistry()
	a, b := &fakeConn{}, &fakeConn{}

	reg.Register("x", a)
	reg.Register("x", b)
	reg.Unregister("x", a)

	m, ok := reg.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 1, m.ConnectionCount())
}

func TestRegistryUnregisterUnknownIsNoop(t *testing.T) {
	reg := NewMemberRegistry()
	conn := &fakeConn{}

	reg.Unregister("ghost", conn)

	reg.Register("x", conn)
	reg.Unregister("x", &fakeConn{})
	m, ok := reg.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 1, m.ConnectionCount())
}

func TestRegistryOrdinalSurvivesReconnect(t *testing.T) {
	reg := NewMemberRegistry()

	first := &fakeConn{}
	m := reg.Register("x", first)
	reg.Register("y", &fakeConn{})
	ordinal, name := m.Ordinal, m.Name()

	reg.Unregister("x", first)
	_, ok := reg.Lookup("x")
	require.False(t, ok)

	again := reg.Register("x", &fakeConn{})
	assert.Equal(t, ordinal, again.Ordinal)
	assert.Equal(t, name, again.Name())
	assert.Equal(t, "member-1", again.Name())

	y, _ := reg.Lookup("y")
	assert.Equal(t, 2, y.Ordinal)
}

func TestRegistryOrdinalsIncrease(t *testing.T) {
	reg := NewMemberRegistry()
	for i, id := range []domain.MemberID{"a", "b", "c"} {
		m := reg.Register(id, &fakeConn{})
		assert.Equal(t, i+1, m.Ordinal)
	}
}

func TestRegistryConcurrentRegisterUnregister(t *testing.T) {
	reg := NewMemberRegistry()

	var wg conc.WaitGroup
	for range 64 {
		wg.Go(func() {
			conn := &fakeConn{}
			reg.Register("x", conn)
			_, _ = reg.Lookup("x")
			reg.Unregister("x", conn)
		})
	}
	wg.Wait()

	_, ok := reg.Lookup("x")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Register("x", &fakeConn{}).Ordinal)
}

func TestMemberRename(t *testing.T) {
	reg := NewMemberRegistry()
	m := reg.Register("x", &fakeConn{})

	assert.Equal(t, "member-1", m.Name())

	m.Rename("Alice")
	assert.Equal(t, "Alice", m.Name())

	long := strings.Repeat("n", 40)
	m.Rename(long)
	assert.Equal(t, long, m.Name())

	m.Rename("")
	assert.Equal(t, "", m.Name())
}

func TestMemberSendFansOutToEveryConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockConnection(ctrl)
	b := mocks.NewMockConnection(ctrl)
	a.EXPECT().Send("game|start").Return(nil)
	b.EXPECT().Send("game|start").Return(nil)

	reg := NewMemberRegistry()
	reg.Register("x", a)
	reg.Register("x", b)

	m, ok := reg.Lookup("x")
	require.True(t, ok)
	m.Send("game|start")
}

func TestMemberSendClosesOnlyFailingConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mocks.NewMockConnection(ctrl)
	healthy := mocks.NewMockConnection(ctrl)
	broken.EXPECT().Send("game|join").Return(errors.New("write: broken pipe"))
	broken.EXPECT().Close(core.CloseProtocolError, "")
	healthy.EXPECT().Send("game|join").Return(nil)

	reg := NewMemberRegistry()
	reg.Register("x", broken)
	reg.Register("x", healthy)

	m, _ := reg.Lookup("x")
	m.Send("game|join")
}

func TestMemberSendFailureMarksConnectionClosed(t *testing.T) {
	reg := NewMemberRegistry()
	broken := &fakeConn{fail: true}
	healthy := &fakeConn{}
	reg.Register("x", broken)
	reg.Register("x", healthy)

	m, _ := reg.Lookup("x")
	m.Send("game|quit")

	assert.Equal(t, []string{"game|quit"}, healthy.Payloads())
	closed, code := broken.Closed()
	assert.True(t, closed)
	assert.Equal(t, core.CloseProtocolError, code)
	healthyClosed, _ := healthy.Closed()
	assert.False(t, healthyClosed)
}

func TestRegistrySnapshot(t *testing.T) {
	reg := NewMemberRegistry()
	reg.Register("b", &fakeConn{})
	reg.Register("a", &fakeConn{})
	reg.Register("a", &fakeConn{})

	snap := reg.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, core.MemberDTO{ID: "a", Name: "member-2", Connections: 2}, snap[0])
	assert.Equal(t, core.MemberDTO{ID: "b", Name: "member-1", Connections: 1}, snap[1])
}
