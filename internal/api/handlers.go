package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/causelist/internal/database"
	"github.com/nao1215/causelist/internal/model"
)

// fetchRequest is the JSON body of POST /fetch-cause-list.
type fetchRequest struct {
	Date     string `json:"date"`
	Side     string `json:"side"`
	Advocate string `json:"advocate"`
	BaseURL  string `json:"base_url"`
	APIKey   string `json:"api_key"`
}

// errorBody is the body of every non-200 response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// invalidFieldTitles maps a rejected request field to the error title.
var invalidFieldTitles = map[string]string{
	"date":     "Invalid date format",
	"side":     "Invalid side",
	"advocate": "Invalid advocate",
	"base_url": "Invalid base URL",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

func (s *Server) handleFetchCauseList(w http.ResponseWriter, r *http.Request) {
	var body fetchRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
	decodeErr := json.NewDecoder(r.Body).Decode(&body)

	key := r.Header.Get(APIKeyHeader)
	if key == "" && decodeErr == nil {
		key = body.APIKey
	}
	if key == "" {
		writeError(w, http.StatusUnauthorized, "API key required",
			"Please provide API key in "+APIKeyHeader+" header or api_key field")
		return
	}
	if !s.validKey(key) {
		s.logger.Warn("rejected request with invalid API key", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid API key", "The provided API key is not valid")
		return
	}

	if decodeErr != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(decodeErr, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", "The request body exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Bad request", "JSON payload required")
		return
	}

	if strings.TrimSpace(body.Date) == "" || strings.TrimSpace(body.Side) == "" || strings.TrimSpace(body.Advocate) == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields", "date, side, and advocate are required fields")
		return
	}

	baseURL := body.BaseURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = s.defaultBaseURL
	}

	req, err := model.ParseFetchRequest(body.Date, body.Side, body.Advocate, baseURL)
	if err != nil {
		writeInvalidInput(w, err)
		return
	}

	start := time.Now()
	outcome, err := s.runner.Run(r.Context(), req)
	if err != nil {
		if model.IsInvalidInput(err) {
			writeInvalidInput(w, err)
			return
		}
		s.logger.Error("lookup failed", "date", req.Date, "side", req.Side.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Processing failed", "The cause list could not be processed")
		return
	}

	if s.history != nil {
		record := database.NewLookupRecord(req, outcome, time.Since(start))
		if _, err := s.history.Record(r.Context(), record); err != nil {
			s.logger.Warn("failed to record lookup", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, model.NewResponse(req, outcome))
}

// validKey compares in constant time. An unset server key matches nothing.
func (s *Server) validKey(key string) bool {
	if s.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) == 1
}

func writeInvalidInput(w http.ResponseWriter, err error) {
	var invalid *model.InvalidInputError
	if !errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, "Bad request", err.Error())
		return
	}
	title, ok := invalidFieldTitles[invalid.Field]
	if !ok {
		title = "Bad request"
	}
	writeError(w, http.StatusBadRequest, title, invalid.Error())
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, errorBody{Error: title, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errchkjson // the status line is already sent
}
