package signal

import (
	"context"
	"time"

	"github.com/dkeye/lobbyhub/internal/core"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// pingPump keeps the connection alive and closes it on server shutdown.
func (ctl *Controller) pingPump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("pingPump ctx done")
			c.Close(core.CloseGoingAway, "server shutdown")
			return
		case <-c.Done():
			return
		case <-ticker.C:
			if err := c.Ping(); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("pingPump ping error")
				c.Close(core.CloseProtocolError, "")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid domain.MemberID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid, c)
		c.Close(core.CloseNormal, "")
		if _, online := ctl.Orch.Members.Lookup(sid); !online && ctl.Limiter != nil {
			ctl.Limiter.Forget(sid)
		}
	}()

	ws := c.conn
	ws.SetReadLimit(ctl.ReadLimit)
	_ = ws.SetReadDeadline(time.Now().Add(ctl.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(ctl.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
		}
		mt, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
			log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("frame rate limited")
			continue
		}
		ctl.Orch.OnTextFrame(sid, string(data))
	}
}
