package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/authsystem/internal/config"
	"github.com/joshua-takyi/authsystem/internal/helpers"
	"github.com/joshua-takyi/authsystem/internal/models"
	"github.com/joshua-takyi/authsystem/internal/notify"
	"github.com/joshua-takyi/authsystem/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"golang.org/x/oauth2/google"
)

// Container holds all application dependencies. Optional capabilities
// (mailer, SMS, OAuth providers, Cloudinary) are nil when unconfigured.
type Container struct {
	Logger *slog.Logger
	Config *config.Config

	MongoDBClient *mongo.Client
	TokenIssuer   *helpers.TokenIssuer

	GoogleOAuth   *oauth2.Config
	FacebookOAuth *oauth2.Config

	AuthService  *services.AuthService
	OAuthService *services.OAuthService
	UserService  *services.UserService
	AdminService *services.AdminService
}

// NewContainer creates a new dependency injection container.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	mongoDBClient *mongo.Client,
	cld *cloudinary.Cloudinary,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)
	tokens := helpers.NewTokenIssuer(cfg.JWTSecret)

	var mailer services.Mailer
	if cfg.HasSMTP() {
		mailer = notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	var sms services.SMSSender
	if cfg.HasTwilio() {
		sms = notify.NewSMSSender(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	}

	var googleOAuth *oauth2.Config
	if cfg.HasGoogle() {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BackendURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}
	}
	var facebookOAuth *oauth2.Config
	if cfg.HasFacebook() {
		facebookOAuth = &oauth2.Config{
			ClientID:     cfg.FacebookAppID,
			ClientSecret: cfg.FacebookAppSecret,
			RedirectURL:  cfg.BackendURL + "/api/auth/facebook/callback",
			Scopes:       []string{"public_profile"},
			Endpoint:     endpoints.Facebook,
		}
	}

	authService := services.NewAuthService(repo, tokens, mailer, sms, cfg.FrontendURL, cfg.IsDevelopment(), logger)
	oauthService := services.NewOAuthService(repo)
	userService := services.NewUserService(repo, cld)
	adminService := services.NewAdminService(repo)

	return &Container{
		Logger:        logger,
		Config:        cfg,
		MongoDBClient: mongoDBClient,
		TokenIssuer:   tokens,
		GoogleOAuth:   googleOAuth,
		FacebookOAuth: facebookOAuth,
		AuthService:   authService,
		OAuthService:  oauthService,
		UserService:   userService,
		AdminService:  adminService,
	}
}
