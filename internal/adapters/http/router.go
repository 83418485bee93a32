package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/lobbyhub/internal/adapters/signal"
	"github.com/dkeye/lobbyhub/internal/app/orch"
	"github.com/dkeye/lobbyhub/internal/config"
	"github.com/dkeye/lobbyhub/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionCookie = "SESSION"
	sessionKey    = "member_id"
)

// MemberTokenMiddleware issues every new client an opaque member token kept in the session cookie.
func MemberTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(sessionKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(sessionKey, token)
			if err := s.Save(); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
			}
		}
		c.Set(signal.MemberKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionCookie, store))
	r.Use(MemberTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewController(o, cfg)
	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString(signal.MemberKey)).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	api.PUT("/join/:lobby", lobbyAction(o.JoinLobby))
	api.PUT("/quit/:lobby", lobbyAction(o.QuitLobby))

	api.GET("/lobbies", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"lobbies": o.Lobbies.List()})
	})

	api.GET("/members", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"members": o.Members.Snapshot()})
	})

	api.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"members": o.Members.Count(),
			"lobbies": o.Lobbies.Count(),
		})
	})

	return r
}

func lobbyAction(action func(domain.MemberID, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := domain.MemberID(c.GetString(signal.MemberKey))
		if sid == "" {
			c.String(http.StatusUnprocessableEntity, "No session")
			return
		}
		lobby := c.Param("lobby")
		if lobby == "" {
			c.String(http.StatusBadRequest, "Wrong UUID")
			return
		}

		err := action(sid, lobby)
		switch {
		case err == nil:
			c.Status(http.StatusOK)
		case errors.Is(err, orch.ErrLobbyNotFound), errors.Is(err, orch.ErrMemberNotFound):
			log.Debug().Err(err).Str("module", "adapters.http").Str("sid", string(sid)).Str("lobby", lobby).Msg("lobby action rejected")
			c.String(http.StatusBadRequest, "Member doesn't exist or game")
		default:
			log.Error().Err(err).Str("module", "adapters.http").Str("sid", string(sid)).Msg("lobby action failed")
			c.Status(http.StatusInternalServerError)
		}
	}
}
