package httputil

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error           string `json:"error"`
	Hint            string `json:"hint,omitempty"`
	IncompleteCount *int   `json:"incomplete_count,omitempty"`
	CurrentRound    *int   `json:"current_round,omitempty"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	writeError(w, http.StatusBadRequest, ErrorBody{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	writeError(w, http.StatusNotFound, ErrorBody{Error: msg})
}

// WriteError maps a service error onto its response. notFound is the message used when the
// error is sql.ErrNoRows; anything unrecognised is logged as msg and answered with a 500.
func WriteError(w http.ResponseWriter, msg, notFound string, err error) {
	var incomplete *bracket.RoundIncompleteError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		NotFound(w, notFound, err)
	case errors.As(err, &incomplete):
		slog.Warn("round incomplete", "round", incomplete.Round, "incomplete", incomplete.Incomplete)
		writeError(w, http.StatusBadRequest, ErrorBody{
			Error:           err.Error(),
			IncompleteCount: &incomplete.Incomplete,
			CurrentRound:    &incomplete.Round,
		})
	case errors.Is(err, bracket.ErrNoCourts):
		slog.Warn("bad request", "message", msg, "error", err)
		writeError(w, http.StatusBadRequest, ErrorBody{Error: err.Error(), Hint: bracket.NoCourtsHint})
	case errors.Is(err, bracket.ErrRoundChanged), errors.Is(err, bracket.ErrAlreadyGenerated):
		slog.Warn("conflict", "message", msg, "error", err)
		writeError(w, http.StatusConflict, ErrorBody{Error: err.Error()})
	case errors.Is(err, bracket.ErrNotRegistered):
		slog.Warn("forbidden", "message", msg, "error", err)
		writeError(w, http.StatusForbidden, ErrorBody{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, bracket.ErrNoParticipants),
		errors.Is(err, bracket.ErrNoMatches),
		errors.Is(err, bracket.ErrTie),
		errors.Is(err, bracket.ErrWinnerNotInMatch),
		errors.Is(err, bracket.ErrWinnerRequired),
		errors.Is(err, bracket.ErrMatchNotReady),
		errors.Is(err, bracket.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)
	default:
		InternalServerError(w, msg, err)
	}
}

func writeError(w http.ResponseWriter, status int, body ErrorBody) {
	if err := WriteJSON(w, status, body); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
