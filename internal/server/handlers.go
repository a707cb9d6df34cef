package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dkellerny/Fire-Watch-GUI/internal/api/twelvedata"
	"github.com/dkellerny/Fire-Watch-GUI/internal/auth"
	"github.com/dkellerny/Fire-Watch-GUI/internal/calculate"
	"github.com/dkellerny/Fire-Watch-GUI/internal/database"
	"github.com/dkellerny/Fire-Watch-GUI/internal/news"
	"github.com/dkellerny/Fire-Watch-GUI/internal/watchlist"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type watchlistAddRequest struct {
	Symbols string `json:"symbols"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadUsername), errors.Is(err, auth.ErrBadPassword):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, database.ErrUsernameTaken):
			s.writeError(w, http.StatusConflict, "username already taken")
		default:
			s.logger.Error().Err(err).Msg("Registration failed")
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		s.logger.Error().Err(err).Msg("Login failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		s.logger.Error().Err(err).Msg("Logout failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChangePassword is gated by the current password rather than a
// session, so a user with an expired session can still rotate credentials.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.auth.ChangePassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadPassword):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.writeError(w, http.StatusUnauthorized, "invalid username or password")
		default:
			s.logger.Error().Err(err).Msg("Password change failed")
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.watchlist.List(r.Context(), userID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Watchlist list failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWatchlistOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.watchlist.Overview(r.Context(), userID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Watchlist overview failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req watchlistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	added, err := s.watchlist.Add(r.Context(), userID(r), req.Symbols)
	if err != nil {
		var invalidErr *watchlist.InvalidSymbolsError
		switch {
		case errors.Is(err, watchlist.ErrNoSymbols):
			s.writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &invalidErr):
			s.writeError(w, http.StatusNotFound, invalidErr.Error())
		case errors.Is(err, watchlist.ErrBatchTooLarge), errors.Is(err, watchlist.ErrWatchlistFull):
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Error().Err(err).Msg("Watchlist add failed")
			s.writeError(w, http.StatusBadGateway, "market data unavailable")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"added": added})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if err := s.watchlist.Remove(r.Context(), userID(r), symbol); err != nil {
		if errors.Is(err, watchlist.ErrNotWatched) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Watchlist remove failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol, ok := models.NormalizeSymbol(r.PathValue("symbol"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid ticker symbol")
		return
	}

	quote, err := s.data.GetQuote(r.Context(), symbol)
	if err != nil {
		s.writeUpstreamError(w, symbol, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol, ok := models.NormalizeSymbol(r.PathValue("symbol"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid ticker symbol")
		return
	}

	tf, ok := models.LookupTimeframe(r.URL.Query().Get("timeframe"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown timeframe")
		return
	}

	candles, err := s.data.GetHistory(r.Context(), symbol, tf)
	if err != nil {
		s.writeUpstreamError(w, symbol, err)
		return
	}

	var names []string
	if raw := r.URL.Query().Get("overlays"); raw != "" {
		names = strings.Split(raw, ",")
	}
	overlays, err := calculate.BuildOverlays(candles, names, s.cfg)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"symbol":    symbol,
		"timeframe": tf.Name,
		"candles":   candles,
		"overlays":  sanitizeSeries(overlays),
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	symbol, ok := models.NormalizeSymbol(r.PathValue("symbol"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid ticker symbol")
		return
	}

	tf, ok := models.LookupTimeframe(r.URL.Query().Get("timeframe"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown timeframe")
		return
	}

	candles, err := s.data.GetHistory(r.Context(), symbol, tf)
	if err != nil {
		s.writeUpstreamError(w, symbol, err)
		return
	}

	snapshot, err := calculate.Snapshot(symbol, tf.Name, candles, s.cfg)
	if err != nil {
		if errors.Is(err, calculate.ErrNotEnoughData) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error().Err(err).Msg("Indicator snapshot failed")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	articles, err := s.news.Headlines(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, news.ErrAPIKeyRequired) {
			s.writeError(w, http.StatusServiceUnavailable, "news lookups require a configured API key")
			return
		}
		s.logger.Error().Err(err).Msg("News fetch failed")
		s.writeError(w, http.StatusBadGateway, "news unavailable")
		return
	}
	if articles == nil {
		articles = []models.NewsArticle{}
	}
	s.writeJSON(w, http.StatusOK, articles)
}

func (s *Server) writeUpstreamError(w http.ResponseWriter, symbol string, err error) {
	if errors.Is(err, twelvedata.ErrSymbolNotFound) {
		s.writeError(w, http.StatusNotFound, "unknown ticker: "+symbol)
		return
	}
	s.logger.Error().Err(err).Str("symbol", symbol).Msg("Market data fetch failed")
	s.writeError(w, http.StatusBadGateway, "market data unavailable")
}
