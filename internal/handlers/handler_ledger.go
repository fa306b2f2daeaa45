package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/middleware"
)

// ledgerHandler exposes a member's income history.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	memberService portssvc.MemberSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, ms portssvc.MemberSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
		memberService: ms,
	}
}

// registerLedgerRoutes registers the income history route.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, ms portssvc.MemberSvcFacade) {
	h := newLedgerHandler(ls, ms)

	rg.GET("/members/:id/income", h.getIncomeHistory) // Own or admin
}

func (h *ledgerHandler) getIncomeHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	entries, err := h.ledgerService.GetIncomeHistory(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to list income history", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve income history"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.IncomeHistoryResponse{
		MemberID: memberID,
		Entries:  dto.ToLedgerEntryResponses(entries),
	})
}
