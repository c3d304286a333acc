package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/posys/pos_ledger_app/internal/middleware"
)

// transferHandler handles HTTP requests for transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
	currency        string
	precision       int32
}

func newTransferHandler(transferService portssvc.TransferSvcFacade, currency string, precision int32) *transferHandler {
	return &transferHandler{transferService: transferService, currency: currency, precision: precision}
}

// createTransfer godoc
// @Summary Record a transfer
// @Description Records a top-up, payout or correction. A nil fromId means money entering the system; a nil toId means money leaving it.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateTransferRequest true "Transfer"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CreateTransfer(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		default:
			logger.Error("Failed to create transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create transfer"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer, h.currency, h.precision))
}

// registerTransferRoutes registers transfer specific routes
func registerTransferRoutes(group *gin.RouterGroup, transferService portssvc.TransferSvcFacade, currency string, precision int32) {
	h := newTransferHandler(transferService, currency, precision)

	group.POST("/transfers", h.createTransfer)
}
