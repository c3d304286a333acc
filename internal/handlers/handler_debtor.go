package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/posys/pos_ledger_app/internal/apperrors"
	"github.com/posys/pos_ledger_app/internal/core/domain"
	portssvc "github.com/posys/pos_ledger_app/internal/core/ports/services"
	"github.com/posys/pos_ledger_app/internal/dto"
	"github.com/posys/pos_ledger_app/internal/middleware"
)

// debtorHandler handles HTTP requests for the fining workflows.
type debtorHandler struct {
	debtorService portssvc.DebtorSvcFacade
	currency      string
	precision     int32
}

func newDebtorHandler(debtorService portssvc.DebtorSvcFacade, currency string, precision int32) *debtorHandler {
	return &debtorHandler{debtorService: debtorService, currency: currency, precision: precision}
}

// calculateEligible godoc
// @Summary List users eligible for a fine
// @Description Returns the users whose balance was at or below the fine threshold on every supplied reference date, with the fine that would apply. Read-only.
// @Tags fines
// @Produce json
// @Param referenceDates query []string true "Reference timestamps (RFC3339)" collectionFormat(multi)
// @Param userTypes query []string false "User types to include" collectionFormat(multi)
// @Success 200 {array} dto.EligibleUserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fines/eligible [get]
func (h *debtorHandler) calculateEligible(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.CalculateFinesParams{}
	for _, dateStr := range c.QueryArray("referenceDates") {
		parsed, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid referenceDates entry, expected RFC3339"})
			return
		}
		params.ReferenceDates = append(params.ReferenceDates, parsed)
	}
	for _, t := range c.QueryArray("userTypes") {
		params.UserTypes = append(params.UserTypes, domain.UserType(t))
	}

	eligible, err := h.debtorService.CalculateFinesOnDate(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to calculate fine eligibility", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to calculate eligibility"})
		return
	}

	c.JSON(http.StatusOK, dto.ToEligibleUserResponses(eligible, h.currency, h.precision))
}

// handOutFines godoc
// @Summary Hand out fines
// @Description Issues fines to the listed users as of the reference date, atomically. Fine amounts are recomputed server side from the balance at the reference date.
// @Tags fines
// @Accept json
// @Produce json
// @Param handout body dto.HandOutFinesRequest true "Users and reference date"
// @Success 201 {object} dto.FineHandoutEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fines/handout [post]
func (h *debtorHandler) handOutFines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.HandOutFinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for handOutFines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	event, err := h.debtorService.HandOutFines(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to hand out fines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to hand out fines"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToFineHandoutEventResponse(event, h.currency, h.precision))
}

// waiveFines godoc
// @Summary Waive a user's fines
// @Description Credits back part or all of the user's outstanding fines. A repeated waiver replaces the previous one instead of stacking.
// @Tags fines
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param waiver body dto.WaiveFinesRequest true "Waive amount"
// @Success 200 {object} dto.UserFineGroupResponse
// @Success 204 "User has no fines to waive"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fines/{userID}/waive [post]
func (h *debtorHandler) waiveFines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.WaiveFinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	group, err := h.debtorService.WaiveFines(c.Request.Context(), userID, req.Amount.ToDecimal())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		default:
			logger.Error("Failed to waive fines", slog.String("error", err.Error()), slog.String("user_id", userID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to waive fines"})
		}
		return
	}
	if group == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserFineGroupResponse(group, h.currency, h.precision))
}

// deleteFine godoc
// @Summary Delete a fine
// @Description Removes a fine together with its backing transfer and re-evaluates the user's fine group.
// @Tags fines
// @Produce json
// @Param fineID path string true "Fine ID"
// @Success 204 "Fine deleted"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fines/single/{fineID} [delete]
func (h *debtorHandler) deleteFine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fineID := c.Param("fineID")

	if err := h.debtorService.DeleteFine(c.Request.Context(), fineID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Fine not found"})
			return
		}
		logger.Error("Failed to delete fine", slog.String("error", err.Error()), slog.String("fine_id", fineID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete fine"})
		return
	}

	c.Status(http.StatusNoContent)
}

// fineReport godoc
// @Summary Summarize fines and waivers
// @Description Counts and sums fine and waiver transfers created in [fromDate, toDate).
// @Tags fines
// @Produce json
// @Param fromDate query string true "Range start (RFC3339, inclusive)"
// @Param toDate query string true "Range end (RFC3339, exclusive)"
// @Success 200 {object} dto.FineReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /fines/report [get]
func (h *debtorHandler) fineReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := time.Parse(time.RFC3339, c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid fromDate, expected RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid toDate, expected RFC3339"})
		return
	}

	report, err := h.debtorService.GetFineReport(c.Request.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrInvariant):
			logger.Error("Ledger corruption detected building fine report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to build fine report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build fine report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFineReportResponse(report, h.currency, h.precision))
}

// RegisterDebtorRoutes registers fining specific routes. Exported so the
// handler tests can mount them on a bare router.
func RegisterDebtorRoutes(group *gin.RouterGroup, debtorService portssvc.DebtorSvcFacade, currency string, precision int32) {
	h := newDebtorHandler(debtorService, currency, precision)

	fines := group.Group("/fines")
	{
		fines.GET("/eligible", h.calculateEligible)
		fines.POST("/handout", h.handOutFines)
		fines.POST("/:userID/waive", h.waiveFines)
		fines.DELETE("/single/:fineID", h.deleteFine)
		fines.GET("/report", h.fineReport)
	}
}
