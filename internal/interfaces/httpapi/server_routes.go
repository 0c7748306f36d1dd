package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/games", handler.ListGames)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/games/{gameID}", handler.GetGame)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, recorder PrincipalRecorder) {
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, recorder, h)
	}

	mux.Handle("GET /v1/dashboard", authed(handler.GetDashboard))

	mux.Handle("GET /v1/tournaments/{tournamentID}/games/me", authed(handler.ListMyGames))
	mux.Handle("PUT /v1/tournaments/{tournamentID}/guesses", authed(handler.UpsertMyGuesses))
	mux.Handle("GET /v1/tournaments/{tournamentID}/guesses/me", authed(handler.ListMyGuesses))
	mux.Handle("PUT /v1/tournaments/{tournamentID}/picks", authed(handler.UpsertMyPicks))
	mux.Handle("GET /v1/tournaments/{tournamentID}/picks/me", authed(handler.GetMyPicks))
	mux.Handle("PUT /v1/tournaments/{tournamentID}/group-order-picks", authed(handler.UpsertMyGroupOrderPick))
	mux.Handle("GET /v1/tournaments/{tournamentID}/completeness/me", authed(handler.GetMyCompleteness))

	mux.Handle("POST /v1/tournaments/{tournamentID}/boosts", authed(handler.PlaceBoost))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}/boosts/{gameID}", authed(handler.RemoveBoost))
	mux.Handle("GET /v1/tournaments/{tournamentID}/boosts/me", authed(handler.ListMyBoosts))

	mux.Handle("GET /v1/tournaments/{tournamentID}/standings/me", authed(handler.GetMyStanding))
	mux.Handle("GET /v1/tournaments/{tournamentID}/score-breakdown/me", authed(handler.GetMyScoreBreakdown))

	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/results", authed(handler.RecordGameResults))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/outcome", authed(handler.SetTournamentOutcome))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/group-results", authed(handler.SetGroupResults))
	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/recompute", authed(handler.RecomputeTournament))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-scores", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScoresJob)))
	mux.Handle("POST /v1/internal/jobs/sync-scores/{tournamentID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncTournamentJob)))
	mux.Handle("POST /v1/internal/jobs/recompute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeJob)))
}
