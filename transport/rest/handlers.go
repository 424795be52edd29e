package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/internal/view"
)

const maxBodyBytes = 1 << 10

var (
	errCellRequired   = errors.New("cell is required")
	errVolumeRequired = errors.New("volume is required")
)

// intentRequest keeps absent fields apart from zero values.
type intentRequest struct {
	Kind   entity.IntentKind `json:"kind"`
	Cell   *int              `json:"cell"`
	Volume *float64          `json:"volume"`
}

// toIntent - checks that the field the kind needs is present.
func (that intentRequest) toIntent() (entity.Intent, error) {
	intent := entity.Intent{Kind: that.Kind}

	switch that.Kind {
	case entity.IntentCellClicked:
		if that.Cell == nil {
			return intent, errCellRequired
		}
		intent.Cell = *that.Cell
	case entity.IntentVolumeChanged:
		if that.Volume == nil {
			return intent, errVolumeRequired
		}
		intent.Volume = *that.Volume
	}

	return intent, nil
}

type sessionResponse struct {
	SessionID string          `json:"session_id"`
	View      view.View       `json:"view"`
	Effects   []entity.Effect `json:"effects"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "createSession")

	session, err := that.sessions.GetOrCreateSession(r.Context(), "")
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, newSessionResponse(session, nil))
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getSession")

	session, err := that.sessions.GetOrCreateSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, newSessionResponse(session, nil))
}

func (that *Server) applyIntent(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "applyIntent")

	var request intentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "malformed intent"})
		return
	}

	intent, err := request.toIntent()
	if err != nil {
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	session, effects, err := that.sessions.Apply(r.Context(), chi.URLParam(r, "id"), intent)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, newSessionResponse(session, effects))
}

func (that *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "deleteSession")

	if err := that.sessions.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newSessionResponse(session *entity.Session, effects []entity.Effect) sessionResponse {
	if effects == nil {
		effects = []entity.Effect{}
	}

	return sessionResponse{
		SessionID: session.ID,
		View:      view.Render(session),
		Effects:   effects,
	}
}

// writeError - maps domain errors to status codes. Internal details stay in the log.
func (that *Server) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeJSON(w, log, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidPayload):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, log, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", "error", err)
	}
}
