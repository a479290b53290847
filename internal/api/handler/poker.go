package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/bankroll/internal/api/middleware"
	"github.com/mcoot/bankroll/internal/api/request"
	"github.com/mcoot/bankroll/internal/api/response"
	"github.com/mcoot/bankroll/internal/model"
	"github.com/mcoot/bankroll/internal/services/poker"
)

// PokerHandler handles poker session endpoints
type PokerHandler struct {
	engine *poker.Engine
}

// NewPokerHandler creates a new poker handler
func NewPokerHandler(engine *poker.Engine) *PokerHandler {
	return &PokerHandler{
		engine: engine,
	}
}

// List handles GET /api/v1/poker/sessions
func (h *PokerHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.engine.ListSessions(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PokerSessionsFromModel(sessions))
}

// Add handles POST /api/v1/poker/sessions
func (h *PokerHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	missing := missingField(
		numberField{"small_blind", req.SmallBlind},
		numberField{"big_blind", req.BigBlind},
		numberField{"buy_in", req.BuyIn},
		numberField{"buy_out", req.BuyOut},
		numberField{"duration", req.Duration},
	)
	if missing != "" {
		WriteError(w, NewInvalidRequestError(missing))
		return
	}

	delta, err := h.engine.AddSession(r.Context(), middleware.MustGetUsername(r.Context()), model.PokerSessionInput{
		Location:   req.Location,
		SmallBlind: *req.SmallBlind,
		BigBlind:   *req.BigBlind,
		BuyIn:      *req.BuyIn,
		BuyOut:     *req.BuyOut,
		Duration:   *req.Duration,
		DateTime:   req.DateTime,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RatingChange{RatingChange: delta})
}

// Remove handles DELETE /api/v1/poker/sessions/{index}
func (h *PokerHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, err := displayIndex(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.engine.RemoveSession(r.Context(), middleware.MustGetUsername(r.Context()), index); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Stats handles GET /api/v1/poker/stats
func (h *PokerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PokerStatsFromModel(stats))
}

// AdvancedStats handles GET /api/v1/poker/stats/advanced
func (h *PokerHandler) AdvancedStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.AdvancedStats(middleware.MustGetUsername(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PokerAdvancedStatsFromModel(stats))
}
