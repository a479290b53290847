package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/bankroll/internal/api/middleware"
	"github.com/mcoot/bankroll/internal/api/request"
	"github.com/mcoot/bankroll/internal/api/response"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/sports"
)

// SportsHandler handles sports bet endpoints
type SportsHandler struct {
	engine *sports.Engine
}

// NewSportsHandler creates a new sports handler
func NewSportsHandler(engine *sports.Engine) *SportsHandler {
	return &SportsHandler{
		engine: engine,
	}
}

// List handles GET /api/v1/sports/bets
func (h *SportsHandler) List(w http.ResponseWriter, r *http.Request) {
	bets, err := h.engine.ListBets(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.BetsFromModel(bets))
}

// Add handles POST /api/v1/sports/bets
func (h *SportsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	missing := missingField(
		numberField{"pick_count", req.PickCount},
		numberField{"bet_amount", req.BetAmount},
		numberField{"amount_won_lost", req.AmountWonLost},
	)
	if missing != "" {
		WriteError(w, NewInvalidRequestError(missing))
		return
	}

	delta, err := h.engine.AddBet(r.Context(), middleware.MustGetUsername(r.Context()), model.BetInput{
		Sport:         req.Sport,
		PickCount:     *req.PickCount,
		BetAmount:     *req.BetAmount,
		AmountWonLost: *req.AmountWonLost,
		DateTime:      req.DateTime,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RatingChange{RatingChange: delta})
}

// Remove handles DELETE /api/v1/sports/bets/{index}
func (h *SportsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := displayIndex(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.engine.RemoveBet(r.Context(), middleware.MustGetUsername(r.Context()), index); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Stats handles GET /api/v1/sports/stats
func (h *SportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SportsStatsFromModel(stats))
}

// AdvancedStats handles GET /api/v1/sports/stats/advanced
func (h *SportsHandler) AdvancedStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.AdvancedStats(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SportsAdvancedStatsFromModel(stats))
}
