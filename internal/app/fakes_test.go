package app

import (
	"errors"
	"slices"
	"sync"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
)

var errBrokenPipe = errors.New("broken pipe")

type fakeConn struct {
	mu        sync.Mutex
	payloads  []string
	fail      bool
	closed    bool
	closeCode int
}

func (c *fakeConn) Send(payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail || c.closed {
		return errBrokenPipe
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeConn) Close(code int, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.closeCode = code
}

func (c *fakeConn) Payloads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.payloads)
}

func (c *fakeConn) Closed() (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed, c.closeCode
}

type recordingOutbox struct {
	mu   sync.Mutex
	envs []core.Envelope
	err  error
}

func (o *recordingOutbox) Send(env core.Envelope) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.envs = append(o.envs, env)
	return nil
}

func (o *recordingOutbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.envs)
}

func (o *recordingOutbox) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.envs = nil
}

// Recipients lists, sorted, who was sent payload.
func (o *recordingOutbox) Recipients(payload string) []domain.MemberID {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []domain.MemberID
	for _, env := range o.envs {
		if env.Payload == payload {
			out = append(out, env.To)
		}
	}
	slices.Sort(out)
	return out
}
