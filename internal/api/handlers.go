package api

import (
	"encoding/json"
	"net/http"

	"github.com/arvindk1/options-strategy-scanner/internal/results"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeInvalidParameter, code == errors.ErrCodeMissingParameter:
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsResolutionError(err):
		// the strategy exists but cannot be built
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeUniverseUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	message := err.Error()

	var coded *errors.Error
	if errors.As(err, &coded) {
		message = coded.Message
	}

	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: int(errors.GetCode(err)), Message: message}})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid JSON body", err)
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListStrategies(r.Context())
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStrategySchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.svc.StrategySchema(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(schema))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req types.ScanRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)

		return
	}

	resp, err := s.svc.RunScan(r.Context(), req, nil)
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type saveConfigResponse struct {
	Status   string                   `json:"status"`
	Strategy types.StrategyDescriptor `json:"strategy"`
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg types.StrategyConfig
	if err := s.decodeBody(w, r, &cfg); err != nil {
		s.writeError(w, r, err)

		return
	}

	if cfg == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidParameter, "strategy config must be a JSON object"))

		return
	}

	desc, err := s.svc.SaveConfig(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, saveConfigResponse{Status: "ok", Strategy: desc})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := results.ParseFilter(query.Get("min_score"), query.Get("max_risk"))
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	resp, err := s.svc.LatestResults(r.Context(), mux.Vars(r)["id"], filter)
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScannedStrategies(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.ScannedStrategies(r.Context())
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Providers())
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.svc.Tickers(r.Context())
	if err != nil {
		s.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, tickers)
}
