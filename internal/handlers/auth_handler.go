package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/authsystem/internal/models"
	"github.com/joshua-takyi/authsystem/internal/services"
)

func Signup(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
			Phone    string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		result, err := as.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
		if err != nil {
			if errors.Is(err, models.ErrConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		resp := gin.H{"message": "User created. Please check your email for OTP verification."}
		if !result.Delivered {
			resp["message"] = "User created. Email delivery is not available."
		}
		if result.OTP != "" {
			// Development fallback: the delivery channel is unavailable.
			resp["otp"] = result.OTP
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func VerifyOTP(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
			OTP   string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, token, err := as.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			if errors.Is(err, models.ErrInvalidToken) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func Login(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email      string `json:"email" binding:"required,email"`
			Password   string `json:"password" binding:"required"`
			RememberMe bool   `json:"rememberMe"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, token, expiresAt, err := as.Login(c.Request.Context(), req.Email, req.Password, req.RememberMe)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			case errors.Is(err, models.ErrNotVerified):
				c.JSON(http.StatusBadRequest, gin.H{"message": "Please verify your email first"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"expiresAt": expiresAt,
			"user":      user,
		})
	}
}

func ForgotPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		result, err := as.ForgotPassword(c.Request.Context(), req.Email)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
			case errors.Is(err, models.ErrProviderUnavailable):
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Failed to send password reset email. Please try again."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			}
			return
		}

		resp := gin.H{"message": "Password reset link sent to your email"}
		if !result.Delivered {
			resp["message"] = "Password reset token generated. Email delivery is not available."
		}
		if result.Token != "" {
			// Development fallback: the delivery channel is unavailable.
			resp["resetToken"] = result.Token
			resp["resetUrl"] = result.ResetURL
		}
		c.JSON(http.StatusOK, resp)
	}
}

func ResetPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		err := as.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidToken) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
	}
}

// Logout acknowledges the request. Tokens are self-contained and stay valid
// until natural expiry; there is no server-side revocation list.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

func SendPhoneOTP(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		if err := as.SendPhoneOTP(c.Request.Context(), userID, req.Phone); err != nil {
			if errors.Is(err, models.ErrProviderUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "SMS service not configured"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP sent to phone"})
	}
}

func VerifyPhoneOTP(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OTP string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			return
		}

		if err := as.VerifyPhoneOTP(c.Request.Context(), userID, req.OTP); err != nil {
			if errors.Is(err, models.ErrInvalidToken) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Phone verified"})
	}
}
