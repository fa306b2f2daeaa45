package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexalink/referral_network_app/internal/apperrors"
	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/dto"
	"github.com/nexalink/referral_network_app/internal/middleware"
)

// adminHandler serves the back-office views.
type adminHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newAdminHandler(ms portssvc.MemberSvcFacade) *adminHandler {
	return &adminHandler{memberService: ms}
}

// registerAdminRoutes registers the admin-only routes. Authorization happens
// in the service, which checks the requesting member's admin flag.
func registerAdminRoutes(rg *gin.RouterGroup, ms portssvc.MemberSvcFacade) {
	h := newAdminHandler(ms)

	admin := rg.Group("/admin")
	{
		admin.GET("/members", h.listMembers)
	}
}

func (h *adminHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterID, ok := middleware.GetMemberIDFromContext(c)
	if !ok {
		logger.Error("Requesting member ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	members, err := h.memberService.ListMembers(c.Request.Context(), requesterID, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Non-admin member attempted to list members", slog.String("requester_id", requesterID))
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		} else {
			logger.Error("Failed to list members", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list members"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: dto.ToMemberResponses(members)})
}
