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

// memberHandler handles member detail, dashboard and activation requests.
type memberHandler struct {
	memberService     portssvc.MemberSvcFacade
	activationService portssvc.ActivationSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade, as portssvc.ActivationSvcFacade) *memberHandler {
	return &memberHandler{
		memberService:     ms,
		activationService: as,
	}
}

// registerMemberRoutes registers the member-panel routes.
func registerMemberRoutes(rg *gin.RouterGroup, ms portssvc.MemberSvcFacade, as portssvc.ActivationSvcFacade) {
	h := newMemberHandler(ms, as)

	members := rg.Group("/members")
	{
		members.GET("/:id", h.getMember)                // Own or admin
		members.GET("/:id/dashboard", h.getDashboard)   // Own or admin
		members.POST("/:id/activate", h.activateMember) // Own or admin
	}
}

// authorizeSelfOrAdmin resolves the requesting member and allows the request
// when it targets their own record or they are an admin. On failure it has
// already written the response.
func authorizeSelfOrAdmin(c *gin.Context, ms portssvc.MemberSvcFacade, targetID string) bool {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		logger.Error("Requesting member ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return false
	}
	if requesterID == targetID {
		return true
	}

	requester, err := ms.GetMemberByID(c.Request.Context(), requesterID)
	if err != nil || !requester.IsAdmin {
		logger.Warn("Member forbidden to access another member's record",
			slog.String("requester_id", requesterID), slog.String("target_id", targetID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return false
	}
	return true
}

func (h *memberHandler) getMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	member, err := h.memberService.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to get member from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve member"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

func (h *memberHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	dashboard, err := h.memberService.GetDashboard(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		} else {
			logger.Error("Failed to build dashboard", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve dashboard"})
		}
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// activateMember triggers the one-time activation and compensation run.
func (h *memberHandler) activateMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	memberID := c.Param("id")

	if !authorizeSelfOrAdmin(c, h.memberService, memberID) {
		return
	}

	logger = logger.With(slog.String("member_id", memberID))
	logger.Info("Received request to activate member")

	result, err := h.activationService.ActivateMember(c.Request.Context(), memberID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Member not found"})
		case errors.Is(err, services.ErrAlreadyActive):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Member is already active"})
		default:
			logger.Error("Failed to activate member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to activate member"})
		}
		return
	}

	logger.Info("Member activated",
		slog.Int("level_payouts", len(result.LevelPayouts)),
		slog.Int("matching_payouts", len(result.MatchingPayouts)))
	c.JSON(http.StatusOK, result)
}
