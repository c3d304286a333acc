package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/posys/pos_ledger_app/internal/middleware"
)

// balanceHandler exposes derived balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
	currency       string
	precision      int32
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade, currency string, precision int32) *balanceHandler {
	return &balanceHandler{balanceService: balanceService, currency: currency, precision: precision}
}

// getBalance godoc
// @Summary Get a user's balance
// @Description Computes the user's derived balance from the ledger, at the optional cutoff date.
// @Tags balances
// @Produce json
// @Param userID path string true "User ID"
// @Param date query string false "Cutoff timestamp (RFC3339), defaults to now"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /balances/{userID} [get]
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var asOf *time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date, expected RFC3339"})
			return
		}
		asOf = &parsed
	}

	balance, err := h.balanceService.CalculateBalance(c.Request.Context(), userID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		logger.Error("Failed to calculate balance", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to calculate balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance, h.currency, h.precision))
}

// registerBalanceRoutes registers balance specific routes
func registerBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, currency string, precision int32) {
	h := newBalanceHandler(balanceService, currency, precision)

	balances := group.Group("/balances")
	{
		balances.GET("/:userID", h.getBalance)
	}
}
