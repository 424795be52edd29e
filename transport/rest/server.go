package rest

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
)

type sessionManager interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	Apply(ctx context.Context, id string, intent entity.Intent) (*entity.Session, []entity.Effect, error)
	DeleteSession(ctx context.Context, id string) error
}

type Server struct {
	logger *slog.Logger

	sessions       sessionManager
	allowedOrigins []string
}

func New(logger *slog.Logger, sessions sessionManager, allowedOrigins []string) *Server {
	return &Server{
		logger:         logger.With("component", "rest"),
		sessions:       sessions,
		allowedOrigins: allowedOrigins,
	}
}

// Router - builds the chi router with CORS and every endpoint mounted.
func (that *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   that.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	ping := NewPingHandler(that.logger)
	r.Get("/ping", ping.PingHandler)

	r.Route("/sessions", func(rr chi.Router) {
		rr.Post("/", that.createSession)
		rr.Get("/{id}", that.getSession)
		rr.Post("/{id}/intents", that.applyIntent)
		rr.Delete("/{id}", that.deleteSession)
	})

	return r
}

// Start - serves the REST API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	return pkg.Serve(ctx, pkg.NewHTTPServer(port, that.Router()))
}
