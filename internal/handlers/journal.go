package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

// JournalHandler serves the authenticated web channel. Web requests operate
// directly on the canonical account key resolved from the JWT.
type JournalHandler struct {
	journal *services.JournalService
}

func NewJournalHandler(journal *services.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

func journalKey(c *gin.Context) string {
	return store.AccountKey(c.GetString("email"))
}

// GetJournal returns the read-only projection of the aggregate. The
// credential hash never leaves the server.
func (h *JournalHandler) GetJournal(c *gin.Context) {
	agg, err := h.journal.Projection(c.Request.Context(), journalKey(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !agg.Authenticated() {
		respondError(c, models.NewNotFoundError("account", c.GetString("email")))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": accountView(agg.Account),
		"balance": agg.Balance,
		"wagers":  agg.Wagers,
		"goals":   agg.Goals,
		"ledger":  agg.Ledger,
	})
}

func (h *JournalHandler) GetStats(c *gin.Context) {
	agg, err := h.journal.Projection(c.Request.Context(), journalKey(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance": agg.Balance,
		"summary": services.Summarize(agg),
	})
}

func (h *JournalHandler) CreateWager(c *gin.Context) {
	var req services.WagerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	w, err := h.journal.CreateWager(c.Request.Context(), journalKey(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"wager":   w,
		"label":   w.DisplayLabel(),
	})
}

type statusRequest struct {
	Status       models.WagerStatus `json:"status" binding:"required"`
	ManualProfit *float64           `json:"manual_profit,omitempty"`
}

func (h *JournalHandler) SetWagerStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	w, err := h.journal.SetWagerStatus(c.Request.Context(), journalKey(c), c.Param("id"), req.Status, req.ManualProfit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"wager":   w,
	})
}

func (h *JournalHandler) DeleteWager(c *gin.Context) {
	if err := h.journal.DeleteWager(c.Request.Context(), journalKey(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type balanceRequest struct {
	Balance float64 `json:"balance"`
}

func (h *JournalHandler) SetBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.journal.SetBalance(c.Request.Context(), journalKey(c), req.Balance)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entry":   entry,
	})
}

func (h *JournalHandler) CreateGoal(c *gin.Context) {
	var req services.GoalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	g, err := h.journal.CreateGoal(c.Request.Context(), journalKey(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"goal":    g,
	})
}

func (h *JournalHandler) DeleteGoal(c *gin.Context) {
	if err := h.journal.DeleteGoal(c.Request.Context(), journalKey(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
