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

// transactionHandler handles HTTP requests for POS purchases.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	currency           string
	precision          int32
}

func newTransactionHandler(transactionService portssvc.TransactionSvcFacade, currency string, precision int32) *transactionHandler {
	return &transactionHandler{transactionService: transactionService, currency: currency, precision: precision}
}

// createTransaction godoc
// @Summary Record a purchase
// @Description Persists a POS purchase debiting the buyer, then runs the debt notification hook.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Purchase"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Buyer not found"})
		default:
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn, h.currency, h.precision))
}

// listUserTransactions godoc
// @Summary List a user's purchases
// @Description Returns a keyset-paginated page of the user's purchases, newest first.
// @Tags transactions
// @Produce json
// @Param userID path string true "User ID"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{userID}/transactions [get]
func (h *transactionHandler) listUserTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.transactionService.ListTransactionsByUser(c.Request.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("user_id", userID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// registerTransactionRoutes registers transaction specific routes
func registerTransactionRoutes(group *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, currency string, precision int32) {
	h := newTransactionHandler(transactionService, currency, precision)

	group.POST("/transactions", h.createTransaction)
	group.GET("/users/:userID/transactions", h.listUserTransactions)
}
