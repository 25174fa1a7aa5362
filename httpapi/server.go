// Package httpapi exposes a tally over a small JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cash-tally/app"
	"cash-tally/domain"
	"cash-tally/events"
	"cash-tally/logging"
)

const maxBodyBytes = 1 << 16

type Server struct {
	service *app.TallyService
	logger  *logging.Logger
}

type inputRequest struct {
	Input string `json:"input"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type verifyResponse struct {
	Consistent bool   `json:"consistent"`
	Version    int    `json:"version"`
	Error      string `json:"error,omitempty"`
}

type historyResponse struct {
	TallyID string         `json:"tallyId"`
	Events  []events.Event `json:"events"`
}

func NewRouter(service *app.TallyService, logger *logging.Logger) http.Handler {
	s := &Server{service: service, logger: logger.WithComponent("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/api/denominations", s.listDenominations)
	r.Get("/api/tally", s.getTally)
	r.Put("/api/tally/quantities/{id}", s.setQuantity)
	r.Put("/api/tally/float", s.setFloat)
	r.Post("/api/tally/reset", s.reset)
	r.Get("/api/tally/history", s.history)
	r.Get("/api/tally/verify", s.verify)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDenominations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Denominations())
}

func (s *Server) getTally(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Report())
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid denomination id")
		return
	}
	d, ok := s.service.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown denomination %q", key))
		return
	}

	req, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	err = s.service.SetQuantity(app.SetQuantityCommand{DenominationID: d.ID, Input: req.Input})
	if errors.Is(err, domain.ErrUnknownDenomination) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("set quantity failed", "denomination", d.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update tally")
		return
	}
	writeJSON(w, http.StatusOK, s.service.Report())
}

func (s *Server) setFloat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	if err := s.service.SetFloatAmount(app.SetFloatAmountCommand{Input: req.Input}); err != nil {
		s.logger.Error("set float failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update tally")
		return
	}
	writeJSON(w, http.StatusOK, s.service.Report())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetAll(app.ResetAllCommand{}); err != nil {
		s.logger.Error("reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset tally")
		return
	}
	writeJSON(w, http.StatusOK, s.service.Report())
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	after, err := queryInt(r, "after")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := s.service.History(app.GetHistoryQuery{After: after, Skip: skip, Limit: limit})
	if err != nil {
		s.logger.Error("history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{TallyID: s.service.TallyID(), Events: history})
}

// verify replays the journal and compares it with the live tally.
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	version := s.service.Version()
	if err := s.service.Verify(); err != nil {
		s.logger.Error("journal verification failed", "error", err)
		writeJSON(w, http.StatusConflict, verifyResponse{Consistent: false, Version: version, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Consistent: true, Version: version})
}

// decodeInput reads {"input": "..."}. The value itself is never rejected;
// only a body that is not JSON is.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (inputRequest, bool) {
	var req inputRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "request body must be JSON like {\"input\": \"3\"}")
		return req, false
	}
	return req, true
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
