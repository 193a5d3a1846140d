package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	handle := func(path string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, s.deps.Metrics.WrapHandler(path, h)).Methods(methods...)
	}

	handle("/", s.getRoot, "GET")
	handle("/status", s.getStatus, "GET")
	handle("/latest", s.getLatest, "GET")
	handle("/readings", s.getReadings, "GET")
	handle("/rooms", s.getRooms, "GET")
	handle("/rooms/latest", s.getLatestRooms, "GET")
	handle("/summary", s.getSummary, "GET")
	handle("/aggregates/{timeframe:hourly|daily}", s.getAggregates, "GET")
	handle("/report", s.getReport, "GET")
	handle("/report", s.postReport, "POST")
	handle("/tick", s.postTick, "POST")
	handle("/ask", s.postAsk, "POST")
	handle("/ask/presets", s.getAskPresets, "GET")

	// Upgrades need the raw writer
	r.HandleFunc("/ws", s.hub.ServeWS).Methods("GET")
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler()).Methods("GET")
	}

	return r
}
