package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/lobbyhub/internal/app/orch"
	"github.com/dkeye/lobbyhub/internal/config"
	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// MemberKey is the gin context key holding the caller's member token.
const MemberKey = "member_id"

var ErrConnClosed = errors.New("connection closed")

type Controller struct {
	Orch    *orch.Orchestrator
	Limiter *FrameRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
}

func NewController(o *orch.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{
		Orch:       o,
		Limiter:    NewFrameRateLimiter(cfg.RateLimit, cfg.RateInterval),
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		PongWait:   cfg.PongWait,
		WriteWait:  cfg.WriteWait,
	}
}

// WsConn implements core.Connection over a gorilla websocket.
// Text frames are written only by the dispatcher. Pings and close frames use
// WriteControl, which gorilla allows concurrently with other writers.
type WsConn struct {
	conn      *websocket.Conn
	writeWait time.Duration

	once   sync.Once
	closed chan struct{}
}

func NewWsConn(conn *websocket.Conn, writeWait time.Duration) *WsConn {
	return &WsConn{
		conn:      conn,
		writeWait: writeWait,
		closed:    make(chan struct{}),
	}
}

func (c *WsConn) Send(payload string) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(payload))
}

func (c *WsConn) Ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

func (c *WsConn) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.closed)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeWait))
		_ = c.conn.Close()
	})
}

func (c *WsConn) Done() <-chan struct{} { return c.closed }

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.MemberID(c.GetString(MemberKey))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	// The session middleware's Set-Cookie must ride on the handshake response.
	header := http.Header{}
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header["Set-Cookie"] = cookies
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	conn := NewWsConn(ws, ctl.WriteWait)

	if sid == "" {
		conn.Close(core.ClosePolicyViolation, "No session")
		return
	}

	ctl.Orch.OnConnect(sid, conn)

	go ctl.pingPump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
