package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/authsystem/internal/helpers"
	"github.com/joshua-takyi/authsystem/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OTPTTL        = 5 * time.Minute
	ResetTokenTTL = 10 * time.Minute
)

// Mailer is the email delivery capability. A nil Mailer means the channel
// is unconfigured.
type Mailer interface {
	SendOTPEmail(to, name, code string) error
	SendResetEmail(to, resetURL string) error
}

// SMSSender is the SMS delivery capability.
type SMSSender interface {
	SendOTP(to, code string) error
}

// AuthService orchestrates signup, verification, login and password reset
// over the credential store.
type AuthService struct {
	userRepo    models.UserRepo
	tokens      *helpers.TokenIssuer
	mailer      Mailer
	sms         SMSSender
	frontendURL string
	devMode     bool
	logger      *slog.Logger
}

func NewAuthService(userRepo models.UserRepo, tokens *helpers.TokenIssuer, mailer Mailer, sms SMSSender, frontendURL string, devMode bool, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		sms:         sms,
		frontendURL: frontendURL,
		devMode:     devMode,
		logger:      logger,
	}
}

// SignupResult reports the outcome of account creation. OTP is populated
// only when the code is intentionally exposed to the caller (development
// fallback when delivery is unconfigured or failed).
type SignupResult struct {
	User      *models.User
	OTP       string
	Delivered bool
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an unverified account and issues its first OTP. Delivery
// is best-effort: a failed email never rolls back the account.
func (as *AuthService) Signup(ctx context.Context, name, email, password, phone string) (*SignupResult, error) {
	email = normalizeEmail(email)
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !helpers.IsPasswordStrong(password) {
		return nil, fmt.Errorf("password is not strong enough")
	}

	if _, err := as.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	code, err := helpers.GenerateOTP()
	if err != nil {
		return nil, err
	}

	otpExpires := time.Now().Add(OTPTTL)
	user := &models.User{
		Name:       strings.TrimSpace(name),
		Email:      email,
		Password:   hash,
		Phone:      strings.TrimSpace(phone),
		Role:       models.RoleUser,
		IsVerified: false,
		OTP:        code,
		OTPExpires: &otpExpires,
	}

	created, err := as.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	result := &SignupResult{User: created}
	if as.mailer == nil {
		as.logger.Warn("email delivery not configured, returning OTP to caller", "email", email)
		if as.devMode {
			result.OTP = code
		}
		return result, nil
	}

	if err := as.mailer.SendOTPEmail(email, created.Name, code); err != nil {
		as.logger.Error("failed to send OTP email", "email", email, "error", err)
		if as.devMode {
			result.OTP = code
		}
		return result, nil
	}

	result.Delivered = true
	return result, nil
}

// VerifyOTP consumes the pending code and promotes the account to verified.
// Wrong code, expired code and unknown email are indistinguishable to the
// caller.
func (as *AuthService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	email = normalizeEmail(email)

	user, err := as.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidToken
		}
		return nil, "", err
	}

	if !user.HasActiveOTP(time.Now()) || user.OTP != code {
		return nil, "", models.ErrInvalidToken
	}

	updated, err := as.userRepo.UpdateUser(ctx, user.ID,
		bson.M{"is_verified": true},
		[]string{"otp", "otp_expires"},
	)
	if err != nil {
		return nil, "", err
	}

	token, _, err := as.tokens.Issue(updated, false)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (as *AuthService) Login(ctx context.Context, email, password string, remember bool) (*models.User, string, time.Time, error) {
	email = normalizeEmail(email)

	user, err := as.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", time.Time{}, models.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}

	if user.Password == "" || !helpers.ComparePassword(user.Password, password) {
		return nil, "", time.Time{}, models.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, "", time.Time{}, models.ErrNotVerified
	}

	updated, err := as.userRepo.RecordLogin(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := as.tokens.Issue(updated, remember)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return updated, token, expiresAt, nil
}

// ForgotResult reports reset-token issuance. Token and ResetURL are exposed
// only in the development fallback.
type ForgotResult struct {
	Token     string
	ResetURL  string
	Delivered bool
}

// ForgotPassword issues a reset token for the account. Unknown emails
// surface as ErrNotFound, matching the upstream behavior.
func (as *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotResult, error) {
	email = normalizeEmail(email)

	user, err := as.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	token, err := helpers.GenerateResetToken()
	if err != nil {
		return nil, err
	}

	resetExpires := time.Now().Add(ResetTokenTTL)
	if _, err := as.userRepo.UpdateUser(ctx, user.ID, bson.M{
		"reset_token":   token,
		"reset_expires": resetExpires,
	}, nil); err != nil {
		return nil, err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", as.frontendURL, token)
	result := &ForgotResult{}

	if as.mailer == nil {
		as.logger.Warn("email delivery not configured, returning reset token to caller", "email", email)
		if as.devMode {
			result.Token = token
			result.ResetURL = resetURL
		}
		return result, nil
	}

	if err := as.mailer.SendResetEmail(email, resetURL); err != nil {
		as.logger.Error("failed to send reset email", "email", email, "error", err)
		return nil, models.ErrProviderUnavailable
	}

	result.Delivered = true
	return result, nil
}

// ResetPassword consumes a reset token and replaces the password hash. The
// token is single-use: the slot is cleared in the same write.
func (as *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return models.ErrInvalidToken
	}
	if !helpers.IsPasswordStrong(newPassword) {
		return fmt.Errorf("password is not strong enough")
	}

	user, err := as.userRepo.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidToken
		}
		return err
	}
	if !user.HasActiveResetToken(time.Now()) {
		return models.ErrInvalidToken
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}

	_, err = as.userRepo.UpdateUser(ctx, user.ID,
		bson.M{"password": hash},
		[]string{"reset_token", "reset_expires"},
	)
	return err
}

// SendPhoneOTP issues a code into the shared OTP slot and texts it to the
// given number.
func (as *AuthService) SendPhoneOTP(ctx context.Context, userID primitive.ObjectID, phone string) error {
	if as.sms == nil {
		return models.ErrProviderUnavailable
	}
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone number is required")
	}

	code, err := helpers.GenerateOTP()
	if err != nil {
		return err
	}

	otpExpires := time.Now().Add(OTPTTL)
	if _, err := as.userRepo.UpdateUser(ctx, userID, bson.M{
		"otp":         code,
		"otp_expires": otpExpires,
		"phone":       strings.TrimSpace(phone),
	}, nil); err != nil {
		return err
	}

	if err := as.sms.SendOTP(phone, code); err != nil {
		as.logger.Error("failed to send phone OTP", "user_id", userID.Hex(), "error", err)
		return models.ErrProviderUnavailable
	}
	return nil
}

// VerifyPhoneOTP consumes the pending code for an authenticated user.
func (as *AuthService) VerifyPhoneOTP(ctx context.Context, userID primitive.ObjectID, code string) error {
	user, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasActiveOTP(time.Now()) || user.OTP != code {
		return models.ErrInvalidToken
	}

	_, err = as.userRepo.UpdateUser(ctx, user.ID, nil, []string{"otp", "otp_expires"})
	return err
}
