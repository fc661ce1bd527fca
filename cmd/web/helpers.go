package main

import (
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/tournament-scheduler/internal/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func respond(w http.ResponseWriter, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// readOptionalJSON leaves dst untouched when the request has no body.
func readOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	return httputil.ReadJSON(w, r, dst)
}

func urlUUID(w http.ResponseWriter, r *http.Request, param, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, msg, err)
		return uuid.Nil, false
	}
	return id, true
}
