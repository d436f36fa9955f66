package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type Handlers struct {
	Matches *MatchHandler
	Places  *PlacesHandler
	Geo     *GeoHandler
	Voice   *VoiceHandler
}

func NewRouter(log *zap.Logger, h Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)

	mux.HandleFunc("/v1/overview", h.Geo.GetOverview)
	mux.HandleFunc("/v1/location", h.Geo.GetLocation)
	mux.HandleFunc("/v1/weather", h.Geo.GetWeather)
	mux.HandleFunc("/v1/places", h.Places.GetNearby)
	mux.HandleFunc("/v1/matches/closest", h.Matches.GetClosestMatches)
	mux.HandleFunc("/v1/matches/", h.Matches.GetMatch)
	mux.HandleFunc("/v1/voice/call", h.Voice.Call)
	mux.HandleFunc("/v1/voice/logs", h.Voice.Logs)

	return LoggingMiddleware(log, RecoveryMiddleware(log, mux))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
