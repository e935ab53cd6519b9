package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/detect"
	"github.com/raaihank/phi-cleanse/internal/events"
	"github.com/raaihank/phi-cleanse/internal/processor"
	"github.com/raaihank/phi-cleanse/internal/sanitize"
	"github.com/raaihank/phi-cleanse/internal/tabular"
)

const maxRequestBody = 32 << 20 // 32 MB

type detectRequest struct {
	Columns []string `json:"columns"`
}

type detectResponse struct {
	Detected map[string]detect.Result `json:"detected"`
}

type sanitizeRequest struct {
	Table *tabular.Table `json:"table"`
	// Configuration names a saved configuration to apply before any inline
	// fields below; inline entries override its per-field settings.
	Configuration string                            `json:"configuration,omitempty"`
	Fields        map[string]processor.FieldConfig  `json:"fields,omitempty"`
	CommonRecords map[string][]string               `json:"common_records,omitempty"`
}

type sanitizeResponse struct {
	Table    *tabular.Table           `json:"table"`
	Detected map[string]detect.Result `json:"detected"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).String(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"service":         "phi-cleanse",
		"categories":      sanitize.Categories(),
		"fuzzy_threshold": s.config.Engine.FuzzyThreshold,
		"catalog_fields":  s.detector.CatalogSize(),
	}
	if s.hub != nil {
		stats := s.hub.GetStats()
		info["event_clients"] = stats.ActiveConnections
	}
	s.writeJSON(w, http.StatusOK, info)
}

// handleDetect runs field detection over a set of column names
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := s.readJSON(w, r, &req); err != nil {
		return
	}
	if len(req.Columns) == 0 {
		s.writeError(w, http.StatusBadRequest, "columns is required")
		return
	}

	detected := s.detector.AnalyzeTable(req.Columns)

	if s.hub != nil {
		s.hub.BroadcastEvent(events.Event{
			Type:      events.EventTypeDetection,
			Timestamp: time.Now(),
			Data: events.DetectionEvent{
				Columns:  len(req.Columns),
				Detected: detected,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, detectResponse{Detected: detected})
}

// handleSanitize detects, configures, and sanitizes a table in one call
func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	var req sanitizeRequest
	if err := s.readJSON(w, r, &req); err != nil {
		return
	}
	if req.Table == nil {
		s.writeError(w, http.StatusBadRequest, "table is required")
		return
	}

	p := s.newProcessor()
	detected, err := p.ProcessTable(req.Table)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Configuration != "" {
		if err := p.LoadConfiguration(req.Configuration); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for field, cfg := range req.Fields {
		p.ConfigureField(field, cfg)
	}
	if req.CommonRecords != nil {
		if err := p.SetCommonRecords(req.CommonRecords); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sanitized, err := p.SanitizeData()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, sanitizeResponse{
		Table:    sanitized,
		Detected: detected,
	})
}

func (s *Server) handleListConfigurations(w http.ResponseWriter, r *http.Request) {
	names := s.newProcessor().ListConfigurations()
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"configurations": names})
}

func (s *Server) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	p := s.newProcessor()
	if err := p.LoadConfiguration(name); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, processor.Configuration{
		FieldConfigs:  p.FieldConfigs(),
		CommonRecords: p.CommonRecords(),
	})
}

func (s *Server) handlePutConfiguration(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var cfg processor.Configuration
	if err := s.readJSON(w, r, &cfg); err != nil {
		return
	}

	p := s.newProcessor()
	for field, fc := range cfg.FieldConfigs {
		p.ConfigureField(field, fc)
	}
	if cfg.CommonRecords != nil {
		if err := p.SetCommonRecords(cfg.CommonRecords); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := p.SaveConfiguration(name); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "name": name})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return err
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
