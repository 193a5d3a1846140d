package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NotCoffee418/smartcity_solar/pkg/agent"
	"github.com/NotCoffee418/smartcity_solar/pkg/aggregator"
	"github.com/NotCoffee418/smartcity_solar/pkg/report"
	"github.com/NotCoffee418/smartcity_solar/pkg/types"
	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// intQuery reads an optional positive integer query parameter.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

func (s *Server) getRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Smart City Solar Simulator API",
		"status":  "running",
	})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	update := s.LatestUpdate()
	if update == nil {
		writeError(w, http.StatusNotFound, "No ticks available yet")
		return
	}
	writeJSON(w, http.StatusOK, update)
}

func (s *Server) getLatest(w http.ResponseWriter, r *http.Request) {
	readings, err := s.deps.Store.LatestReadingPerHouse(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) getReadings(w http.ResponseWriter, r *http.Request) {
	house, err := intQuery(r, "house")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var readings []types.Reading
	if house > 0 {
		readings, err = s.deps.Store.ReadingsForHouse(r.Context(), house)
	} else {
		readings, err = s.deps.Store.AllReadings(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

func (s *Server) getRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.deps.Store.AllRoomActivities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getLatestRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.deps.Store.LatestRoomActivityPerHouse(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	readings, err := s.deps.Store.AllReadings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(readings))
}

func (s *Server) getAggregates(w http.ResponseWriter, r *http.Request) {
	if s.deps.Aggregator == nil {
		writeError(w, http.StatusServiceUnavailable, "Aggregation is disabled")
		return
	}

	timeframe := aggregator.Hourly
	if mux.Vars(r)["timeframe"] == "daily" {
		timeframe = aggregator.Daily
	}

	house, err := intQuery(r, "house")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	aggregates, err := s.deps.Aggregator.Aggregates(r.Context(), timeframe, house, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, aggregates)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	readings, err := s.deps.Store.LatestReadingPerHouse(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := report.ExportLatest(readings, s.deps.ReportLinesPerPage, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="solar-report.txt"`)
	w.Write(doc)
}

func (s *Server) postReport(w http.ResponseWriter, r *http.Request) {
	readings, err := s.deps.Store.LatestReadingPerHouse(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	path, err := report.WriteReportFile(s.deps.ReportDir, readings, s.deps.ReportLinesPerPage, time.Now())
	if err != nil {
		log.Printf("Report export failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

func (s *Server) postTick(w http.ResponseWriter, r *http.Request) {
	tick, err := s.deps.Runner.RunOnce(r.Context())
	if err != nil {
		s.HandleTickError(err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.HandleTick(tick)
	writeJSON(w, http.StatusOK, s.LatestUpdate())
}

// Question wins over Preset when both are set.
type askRequest struct {
	Question string `json:"question"`
	Preset   string `json:"preset"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Failed bool   `json:"failed"`
}

func (s *Server) getAskPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, agent.Presets())
}

func (s *Server) postAsk(w http.ResponseWriter, r *http.Request) {
	if s.deps.Answerer == nil {
		writeError(w, http.StatusServiceUnavailable, "No language model configured")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" && req.Preset != "" {
		question, ok := agent.PresetQuestion(req.Preset)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown preset %q", req.Preset))
			return
		}
		req.Question = question
	}

	schema, err := s.deps.Store.Schema(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	answer := agent.Ask(r.Context(), s.deps.Answerer, req.Question, schema)
	writeJSON(w, http.StatusOK, askResponse{Answer: answer, Failed: agent.IsError(answer)})
}
