package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/nexalink/referral_network_app/internal/core/ports/services"
	"github.com/nexalink/referral_network_app/internal/middleware"
	"github.com/nexalink/referral_network_app/internal/platform/config"
)

// usernameRegexp allows the usual account-name shape: letters, digits,
// dot, underscore and hyphen, 3 to 32 characters.
var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes (signup is placement)
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// registerCustomValidators installs the username format check on gin's
// binding engine so request DTOs can use the `username` tag.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRegexp.MatchString(fl.Field().String())
		})
	}
}

// newAuthRateLimiter builds the IP rate limiter applied to the public auth
// routes, using the configured "<count>-<period>" format.
func newAuthRateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		// Fall back to a conservative limit rather than leaving the
		// signup route unprotected.
		rate, _ = limiter.NewRateFromFormatted("20-M")
	}
	store := memory.NewStore()
	return middleware.RateLimit(limiter.New(store, rate))
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerMemberRoutes(v1, services.Member, services.Activation)
	registerNetworkRoutes(v1, services.Team, services.Member)
	registerLedgerRoutes(v1, services.Ledger, services.Member)
	registerAdminRoutes(v1, services.Member)
}
