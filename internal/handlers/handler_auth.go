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
	"github.com/nexalink/referral_network_app/internal/platform/config"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler handles the public signup and login requests.
type authHandler struct {
	placementService portssvc.PlacementSvcFacade
	memberService    portssvc.MemberSvcFacade
	tokenService     portssvc.TokenSvcFacade
}

func newAuthHandler(sc *portssvc.ServiceContainer) *authHandler {
	return &authHandler{
		placementService: sc.Placement,
		memberService:    sc.Member,
		tokenService:     sc.Token,
	}
}

// registerAuthRoutes sets up the public routes for registration and login.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, sc *portssvc.ServiceContainer) {
	h := newAuthHandler(sc)
	limitMiddleware := newAuthRateLimiter(cfg)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.register)
		auth.POST("/login", limitMiddleware, h.login)
	}
}

// register places a new member under the requested sponsor. The new member
// starts inactive; no income is paid until activation.
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	member, err := h.placementService.PlaceMember(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSponsorNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sponsor not found"})
		case errors.Is(err, services.ErrSponsorCapacity):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Sponsor has no remaining direct slots"})
		case errors.Is(err, services.ErrDuplicateUsername):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already taken"})
		case errors.Is(err, services.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already taken"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to register member", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register member"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterMemberResponse{Member: dto.ToMemberResponse(member)})
}

// login authenticates the credentials and returns a signed session token.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	member, err := h.memberService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Unknown username and wrong password are indistinguishable here.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}

	token, err := h.tokenService.GenerateToken(member.MemberID)
	if err != nil {
		logger.Error("Failed to sign session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		MemberID: member.MemberID,
		Username: member.Username,
		IsAdmin:  member.IsAdmin,
		Token:    token,
	})
}
