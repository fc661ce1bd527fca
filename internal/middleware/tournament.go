package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/tournament-scheduler/internal/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ContextKey string

const TournamentIDKey ContextKey = "tournamentID"

// TournamentID parses the {id} route parameter and stores it in the request context.
func TournamentID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid tournament ID", err)
			return
		}
		ctx := context.WithValue(r.Context(), TournamentIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetTournamentIDFromContext(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(TournamentIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("tournament id not found in context")
	}
	return id, nil
}
