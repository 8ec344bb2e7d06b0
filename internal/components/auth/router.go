package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrasnagy-data/credentials/internal/shared/config"
	"github.com/andrasnagy-data/credentials/internal/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

type (
	Router struct {
		service servicer
		timeout time.Duration
	}
)

func NewRouter(service servicer, cfg *config.Config) chi.Router {
	router := &Router{service: service, timeout: cfg.RequestTimeout}
	return router.Routes()
}

func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.JSONHeaders)
	router.MethodNotAllowed(middleware.MethodNotAllowed)

	preflight := middleware.Preflight("POST, OPTIONS")

	router.Post("/register", r.Register)
	router.Options("/register", preflight)
	router.Post("/login", r.Login)
	router.Options("/login", preflight)

	return router
}

// Register creates a user from a JSON {email, password} body
func (r *Router) Register(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), r.timeout)
	defer cancel()
	logger := hlog.FromRequest(req)

	cred, err := readCredential(w, req)
	if err != nil {
		writeError(w, logger, "Register", err)
		return
	}

	result, err := r.service.Register(ctx, cred)
	if err != nil {
		l := logger.With().Str("email", cred.Email).Logger()
		writeError(w, &l, "Register", err)
		return
	}

	logger.Info().Str("email", result.Email).Msg("User registered")
	writeJSON(w, logger, http.StatusOK, Response{
		Status:  statusSuccess,
		Message: "user registered",
		Token:   result.Token,
	})
}

// Login checks a JSON {email, password} body against the stored credential
func (r *Router) Login(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), r.timeout)
	defer cancel()
	logger := hlog.FromRequest(req)

	cred, err := readCredential(w, req)
	if err != nil {
		writeError(w, logger, "Login", err)
		return
	}

	logger.Debug().Str("email", cred.Email).Msg("Login attempt")

	result, err := r.service.Login(ctx, cred)
	if err != nil {
		l := logger.With().Str("email", cred.Email).Logger()
		writeError(w, &l, "Login", err)
		return
	}

	logger.Debug().Str("email", result.Email).Msg("Login successful")
	writeJSON(w, logger, http.StatusOK, Response{
		Status:  statusSuccess,
		Message: "login successful",
		Email:   result.Email,
		Token:   result.Token,
	})
}

func readCredential(w http.ResponseWriter, req *http.Request) (Credential, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err != nil {
		return Credential{}, fmt.Errorf("%w: read body: %w", ErrMalformedRequest, err)
	}
	return parseCredential(body)
}

// errorStatus maps the error taxonomy onto an HTTP status and the message shown to clients.
// Store failures get a generic message; the detail only goes to the log.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrDuplicateEntry):
		return http.StatusConflict, ErrDuplicateEntry.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials.Error()
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusInternalServerError, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, logger *zerolog.Logger, op string, err error) {
	status, message := errorStatus(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Int("status", status).Msgf("%s failed", op)

	writeJSON(w, logger, status, Response{Status: statusError, Message: message})
}

func writeJSON(w http.ResponseWriter, logger *zerolog.Logger, status int, resp Response) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
