package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/authsystem/internal/container"
	"github.com/joshua-takyi/authsystem/internal/handlers"
	"github.com/joshua-takyi/authsystem/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{container.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "auth-system-api",
			})
		})
	}

	auth := api.Group("/auth")
	{
		auth.POST("/signup", handlers.Signup(container.AuthService))
		auth.POST("/verify-otp", handlers.VerifyOTP(container.AuthService))
		auth.POST("/login", handlers.Login(container.AuthService))
		auth.POST("/forgot-password", handlers.ForgotPassword(container.AuthService))
		auth.POST("/reset-password/:token", handlers.ResetPassword(container.AuthService))

		auth.GET("/google", handlers.OAuthRedirect(container.GoogleOAuth, handlers.ProviderGoogle))
		auth.GET("/google/callback", handlers.OAuthCallback(container.GoogleOAuth, container.OAuthService, container.TokenIssuer, container.Config.FrontendURL, handlers.ProviderGoogle))
		auth.GET("/facebook", handlers.OAuthRedirect(container.FacebookOAuth, handlers.ProviderFacebook))
		auth.GET("/facebook/callback", handlers.OAuthCallback(container.FacebookOAuth, container.OAuthService, container.TokenIssuer, container.Config.FrontendURL, handlers.ProviderFacebook))
	}

	authProtected := auth.Group("/")
	authProtected.Use(middleware.AuthMiddleware(container.TokenIssuer))
	{
		authProtected.POST("/logout", handlers.Logout())
		authProtected.POST("/send-phone-otp", handlers.SendPhoneOTP(container.AuthService))
		authProtected.POST("/verify-phone-otp", handlers.VerifyPhoneOTP(container.AuthService))
	}

	profile := api.Group("/profile")
	profile.Use(middleware.AuthMiddleware(container.TokenIssuer))
	{
		profile.GET("", handlers.GetProfile(container.UserService))
		profile.PUT("", handlers.UpdateProfile(container.UserService))
		profile.POST("/upload-picture", handlers.UploadProfilePicture(container.UserService))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(container.TokenIssuer), middleware.RequireAdmin())
	{
		admin.GET("/users", handlers.ListUsers(container.AdminService))
		admin.GET("/stats", handlers.GetStats(container.AdminService))
		admin.PUT("/users/:id/role", handlers.UpdateUserRole(container.AdminService))
		admin.DELETE("/users/:id", handlers.DeleteUser(container.AdminService))
		admin.PATCH("/users/:id/verify", handlers.ToggleUserVerification(container.AdminService))
		admin.GET("/activity", handlers.GetLoginActivity(container.AdminService))
	}

	return r
}
