package handler

import (
	"io"
	"log/slog"
	"net/http"

	"invoice-dashboard-backend/internal/services/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	cards *dashboard.Service
}

func NewDashboardHandler(cards *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{cards: cards}
}

// Cards responds once every card has finished loading. Failed cards are
// rendered with their error next to the ones that loaded.
func (h *DashboardHandler) Cards(c *gin.Context) {
	cards, err := h.cards.Cards(c.Request.Context())
	if err != nil {
		slog.WarnContext(c.Request.Context(), "dashboard cards partially failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// StreamCards pushes each card as a server-sent "card" event in the order the
// cards finish.
func (h *DashboardHandler) StreamCards(c *gin.Context) {
	stream := h.cards.Stream(c.Request.Context())
	c.Stream(func(w io.Writer) bool {
		card, ok := <-stream
		if !ok {
			return false
		}
		c.SSEvent("card", card)
		return true
	})
}
