package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/weeks/{week}/lock", handler.GetWeekLock)
	mux.HandleFunc("GET /v1/teams/{teamID}/roster-changes", handler.GetRosterChangeEligibility)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams/{teamID}/roster", handler.GetTeamRoster)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/teams/{teamID}/roster-changes", handler.AddDropPlayer)

	mux.HandleFunc("POST /v1/leagues/{leagueID}/waivers", handler.SubmitWaiverClaim)
	mux.HandleFunc("GET /v1/waivers/{claimID}", handler.GetWaiverClaim)
	mux.HandleFunc("POST /v1/waivers/{claimID}/cancel", handler.CancelWaiverClaim)

	mux.HandleFunc("POST /v1/leagues/{leagueID}/trades", handler.ProposeTrade)
	mux.HandleFunc("GET /v1/trades/{tradeID}", handler.GetTrade)
	mux.HandleFunc("POST /v1/trades/{tradeID}/accept", handler.AcceptTrade)
	mux.HandleFunc("POST /v1/trades/{tradeID}/reject", handler.RejectTrade)
	mux.HandleFunc("POST /v1/trades/{tradeID}/cancel", handler.CancelTrade)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/run-unlock", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUnlockJob)))
}
