package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
)

const healthTimeout = 2 * time.Second

type (
	pinger interface {
		PingContext(ctx context.Context) error
	}

	// HealthSrvc reports whether the credential store is reachable
	HealthSrvc struct {
		db pinger
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Database  bool      `json:"database"`
	}
)

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		response, err := srvc.check(r.Context())

		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if response.Database {
			logger.Debug().Msg("Database healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Err(err).Msg("Database healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
		}
	}
}

func NewHealthSrvc(db *sql.DB) *HealthSrvc {
	return &HealthSrvc{db: db}
}

func (s *HealthSrvc) check(ctx context.Context) (HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	err := s.db.PingContext(ctx)
	response := HealthResponse{
		Status:    "serving",
		Timestamp: time.Now().UTC(),
		Database:  err == nil,
	}
	if err != nil {
		response.Status = "not serving"
	}
	return response, err
}
