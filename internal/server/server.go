package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkellerny/Fire-Watch-GUI/internal/auth"
	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/internal/news"
	"github.com/dkellerny/Fire-Watch-GUI/internal/watchlist"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// MarketData is the market-data surface the handlers need.
type MarketData interface {
	GetHistory(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Candle, error)
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Server wires the HTTP API together.
type Server struct {
	cfg       *config.Config
	auth      *auth.Service
	watchlist *watchlist.Service
	news      *news.Service
	data      MarketData
	logger    zerolog.Logger
}

// New creates a Server over the given services.
func New(cfg *config.Config, authSvc *auth.Service, wlSvc *watchlist.Service, newsSvc *news.Service, data MarketData) *Server {
	return &Server{
		cfg:       cfg,
		auth:      authSvc,
		watchlist: wlSvc,
		news:      newsSvc,
		data:      data,
		logger:    log.With().Str("component", "http_server").Logger(),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/password", s.handleChangePassword)

	mux.Handle("POST /api/logout", s.requireAuth(s.handleLogout))
	mux.Handle("GET /api/watchlist", s.requireAuth(s.handleWatchlistList))
	mux.Handle("GET /api/watchlist/overview", s.requireAuth(s.handleWatchlistOverview))
	mux.Handle("POST /api/watchlist", s.requireAuth(s.handleWatchlistAdd))
	mux.Handle("DELETE /api/watchlist/{symbol}", s.requireAuth(s.handleWatchlistRemove))

	mux.Handle("GET /api/stocks/{symbol}/quote", s.requireAuth(s.handleQuote))
	mux.Handle("GET /api/stocks/{symbol}/history", s.requireAuth(s.handleHistory))
	mux.Handle("GET /api/stocks/{symbol}/indicators", s.requireAuth(s.handleIndicators))

	mux.Handle("GET /api/news", s.requireAuth(s.handleNews))

	return s.logRequests(mux)
}

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth resolves the bearer token to a user ID and stores it on the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		userID, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidSession) {
				s.writeError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			s.logger.Error().Err(err).Msg("Session lookup failed")
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Encoding response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// sanitizeSeries rewrites NaN values as JSON-safe nulls. encoding/json
// refuses NaN outright, so overlay gaps go out as null points.
func sanitizeSeries(overlays []models.IndicatorSeries) []map[string]any {
	out := make([]map[string]any, 0, len(overlays))
	for _, series := range overlays {
		values := make([]any, len(series.Values))
		for i, v := range series.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				values[i] = nil
			} else {
				values[i] = v
			}
		}
		out = append(out, map[string]any{"name": series.Name, "values": values})
	}
	return out
}
