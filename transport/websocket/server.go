package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/pkg"
)

var ErrOriginNotAllowed = errors.New("origin not allowed")

type sessionManager interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	Apply(ctx context.Context, id string, intent entity.Intent) (*entity.Session, []entity.Effect, error)
}

type handlerFunc func(ctx context.Context, conn *connection, msg *Message) error

type Server struct {
	logger   *slog.Logger
	sessions sessionManager

	allowedOrigins []string

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionManager, allowedOrigins []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		sessions:       sessions,
		allowedOrigins: allowedOrigins,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCellClick] = server.handleCellClick
	server.handlers[actionGameStart] = server.intentHandler(entity.IntentStart)
	server.handlers[actionRoundNew] = server.intentHandler(entity.IntentNewRound)
	server.handlers[actionGameReset] = server.intentHandler(entity.IntentResetAll)
	server.handlers[actionVolumeChange] = server.handleVolumeChange

	return server
}

// Handler - http handler serving the socket at /ws.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", websocket.Server{
		Handshake: that.checkOrigin,
		Handler:   that.serveConn,
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return pkg.Serve(ctx, srv)
}

func (that *Server) checkOrigin(config *websocket.Config, req *http.Request) error {
	origin, err := websocket.Origin(config, req)
	if err != nil {
		return fmt.Errorf("failed to parse origin: %w", err)
	}

	if slices.Contains(that.allowedOrigins, "*") {
		config.Origin = origin
		return nil
	}

	if origin == nil || !slices.Contains(that.allowedOrigins, origin.Scheme+"://"+origin.Host) {
		return ErrOriginNotAllowed
	}

	config.Origin = origin

	return nil
}

// serveConn - processes messages from one client until it disconnects.
func (that *Server) serveConn(ws *websocket.Conn) {
	log := that.logger.With("method", "serveConn", "remote", ws.Request().RemoteAddr)
	ctx := ws.Request().Context()

	defer ws.Close()

	conn := newConnection(ws, log)

	log.Info("WebSocket connection established")

	for {
		var message Message
		if err := websocket.JSON.Receive(ws, &message); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("WebSocket connection closed", "sessionID", conn.sessionID)
				return
			}

			if isDecodeError(err) {
				log.Warn("failed to decode message", "error", err)
				if err = conn.sendError(actionError, "malformed message"); err != nil {
					return
				}
				continue
			}

			log.Error("error reading message", "error", err)
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := conn.sendError(message.Action, "unknown action"); err != nil {
				return
			}
			continue
		}

		if err := handler(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

// isDecodeError reports a frame that arrived whole but is not a Message.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
