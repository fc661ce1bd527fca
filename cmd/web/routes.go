package main

import (
	"net/http"

	"github.com/AdamBeresnev/tournament-scheduler/internal/httputil"
	"github.com/AdamBeresnev/tournament-scheduler/internal/middleware"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

type services struct {
	tournaments *service.TournamentService
	entries     *service.EntryService
	generation  *service.GenerationService
	rounds      *service.RoundService
	matches     *service.MatchService
	courts      *service.CourtService
	players     *service.PlayerService
}

type routerOptions struct {
	allowedOrigins []string
	writeRateLimit float64
}

func newRouter(svc *services, opts routerOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(opts.writeRateLimit))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			tournaments, err := svc.tournaments.ListTournaments(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list tournaments", err)
				return
			}
			respond(w, http.StatusOK, tournaments)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var input service.TournamentInput
			if err := httputil.ReadJSON(w, r, &input); err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			tournament, err := svc.tournaments.CreateTournament(r.Context(), input)
			if err != nil {
				httputil.WriteError(w, "Failed to create tournament", "", err)
				return
			}
			respond(w, http.StatusCreated, tournament)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.TournamentID)
			mountTournament(r, svc)
		})
	})

	r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
		players, err := svc.players.SearchPlayers(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			httputil.InternalServerError(w, "Failed to search players", err)
			return
		}
		respond(w, http.StatusOK, players)
	})

	r.Route("/courts/{id}", func(r chi.Router) {
		mountCourt(r, svc)
	})

	r.Route("/matches/{id}", func(r chi.Router) {
		mountMatch(r, svc)
	})

	return r
}

func mountTournament(r chi.Router, svc *services) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		data, err := svc.tournaments.GetTournamentData(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to get tournament", "Tournament not found", err)
			return
		}
		respond(w, http.StatusOK, data)
	})

	r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var input service.RegistrationInput
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		res, err := svc.tournaments.RegisterPlayer(r.Context(), id, input)
		if err != nil {
			httputil.WriteError(w, "Failed to register player", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, res)
	})

	r.Post("/roster", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var input struct {
			Roster string `json:"roster"`
		}
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		res, err := svc.entries.ImportRoster(r.Context(), id, input.Roster)
		if err != nil {
			httputil.WriteError(w, "Failed to import roster", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, res)
	})

	r.Get("/teams", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		teams, err := svc.tournaments.ListTeams(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to list teams", "Tournament not found", err)
			return
		}
		respond(w, http.StatusOK, teams)
	})

	r.Post("/teams", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var input service.TeamInput
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		team, err := svc.tournaments.CreateTeam(r.Context(), id, input)
		if err != nil {
			httputil.WriteError(w, "Failed to create team", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, team)
	})

	r.Get("/courts", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		courts, err := svc.courts.ListCourts(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to list courts", "Tournament not found", err)
			return
		}
		respond(w, http.StatusOK, courts)
	})

	r.Post("/courts", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var input service.CourtInput
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		court, err := svc.courts.CreateCourt(r.Context(), id, input)
		if err != nil {
			httputil.WriteError(w, "Failed to create court", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, court)
	})

	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		res, err := svc.generation.GenerateBracket(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to generate bracket", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, res)
	})

	r.Post("/generate-pools", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var opts service.PoolOptions
		if err := readOptionalJSON(w, r, &opts); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		res, err := svc.generation.GeneratePools(r.Context(), id, opts)
		if err != nil {
			httputil.WriteError(w, "Failed to generate pools", "Tournament not found", err)
			return
		}
		respond(w, http.StatusCreated, res)
	})

	r.Post("/advance-round", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		var input struct {
			ExpectedRound *int `json:"expected_round"`
		}
		if err := readOptionalJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		res, err := svc.rounds.AdvanceRound(r.Context(), id, input.ExpectedRound)
		if err != nil {
			httputil.WriteError(w, "Failed to advance round", "Tournament not found", err)
			return
		}
		respond(w, http.StatusOK, res)
	})

	r.Get("/players/{player_id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetTournamentIDFromContext(r.Context())
		playerID, ok := urlUUID(w, r, "player_id", "Invalid player ID")
		if !ok {
			return
		}
		view, err := svc.players.GetPlayerView(r.Context(), id, playerID)
		if err != nil {
			httputil.WriteError(w, "Failed to get player view", "Tournament or player not found", err)
			return
		}
		respond(w, http.StatusOK, view)
	})
}

func mountCourt(r chi.Router, svc *services) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid court ID")
		if !ok {
			return
		}
		court, err := svc.courts.GetCourt(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to get court", "Court not found", err)
			return
		}
		respond(w, http.StatusOK, court)
	})

	r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid court ID")
		if !ok {
			return
		}
		var update service.CourtUpdate
		if err := httputil.ReadJSON(w, r, &update); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		court, err := svc.courts.UpdateCourt(r.Context(), id, update)
		if err != nil {
			httputil.WriteError(w, "Failed to update court", "Court not found", err)
			return
		}
		respond(w, http.StatusOK, court)
	})

	r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid court ID")
		if !ok {
			return
		}
		if err := svc.courts.DeleteCourt(r.Context(), id); err != nil {
			httputil.WriteError(w, "Failed to delete court", "Court not found", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid court ID")
		if !ok {
			return
		}
		queue, err := svc.courts.CourtQueue(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to get court queue", "Court not found", err)
			return
		}
		respond(w, http.StatusOK, queue)
	})
}

func mountMatch(r chi.Router, svc *services) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid match ID")
		if !ok {
			return
		}
		detail, err := svc.matches.GetMatch(r.Context(), id)
		if err != nil {
			httputil.WriteError(w, "Failed to get match", "Match not found", err)
			return
		}
		respond(w, http.StatusOK, detail)
	})

	r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid match ID")
		if !ok {
			return
		}
		var update service.MatchUpdate
		if err := httputil.ReadJSON(w, r, &update); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		match, err := svc.matches.UpdateMatch(r.Context(), id, update)
		if err != nil {
			httputil.WriteError(w, "Failed to update match", "Match not found", err)
			return
		}
		respond(w, http.StatusOK, match)
	})

	r.Patch("/court", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid match ID")
		if !ok {
			return
		}
		var input struct {
			CourtID *uuid.UUID `json:"court_id"`
		}
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		match, err := svc.matches.AssignCourt(r.Context(), id, input.CourtID)
		if err != nil {
			httputil.WriteError(w, "Failed to assign court", "Match not found", err)
			return
		}
		respond(w, http.StatusOK, match)
	})

	r.Post("/score", func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlUUID(w, r, "id", "Invalid match ID")
		if !ok {
			return
		}
		var input service.ScoreInput
		if err := httputil.ReadJSON(w, r, &input); err != nil {
			httputil.BadRequest(w, err.Error(), err)
			return
		}
		match, err := svc.matches.SubmitScore(r.Context(), id, input)
		if err != nil {
			httputil.WriteError(w, "Failed to submit score", "Match not found", err)
			return
		}
		respond(w, http.StatusOK, match)
	})
}
