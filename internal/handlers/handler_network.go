package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/core/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/middleware"
)

// networkHandler exposes the downline structure: leg split and subtree view.
type networkHandler struct {
	teamService   portssvc.TeamSvcFacade
	memberService portssvc.MemberSvcFacade
}

func newNetworkHandler(ts portssvc.TeamSvcFacade, ms portssvc.MemberSvcFacade) *networkHandler {
	return &networkHandler{
		teamService:   ts,
		memberService: ms,
	}
}

// registerNetworkRoutes registers the tree inspection routes.
func registerNetworkRoutes(rg *gin.RouterGroup, ts portssvc.TeamSvcFacade, ms portssvc.MemberSvcFacade) {
	h := newNetworkHandler(ts, ms)

	members := rg.Group("/members")
	{
		members.GET("/:id/legs", h.getLegs) // Own or admin
		members.GET("/:id/tree", h.getTree) // Own or admin
	}
}

func (h *networkHandler) getLegs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	legs, err := h.teamService.LegSummary(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to compute leg summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve leg summary"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLegSummaryResponse(legs))
}

func (h *networkHandler) getTree(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	tree, err := h.teamService.GetSubtree(c.Request.Context(), memberID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		case errors.Is(err, services.ErrCycleDetected):
			logger.Error("Referral tree is corrupt", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Referral tree is inconsistent"})
		default:
			logger.Error("Failed to build subtree", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve tree"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtreeNodeResponse(tree))
}
