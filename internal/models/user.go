package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is one of the accepted role values.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is the credential store record. Secret fields (password hash, OTP,
// reset token, provider IDs) never serialize to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Password       string             `bson:"password,omitempty" json:"-"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	Role           string             `bson:"role" json:"role"`
	IsVerified     bool               `bson:"is_verified" json:"is_verified"`
	LastLogin      *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	LoginCount     int                `bson:"login_count" json:"login_count"`
	OTP            string             `bson:"otp,omitempty" json:"-"`
	OTPExpires     *time.Time         `bson:"otp_expires,omitempty" json:"-"`
	Providers      map[string]string  `bson:"providers,omitempty" json:"-"`
	ResetToken     string             `bson:"reset_token,omitempty" json:"-"`
	ResetExpires   *time.Time         `bson:"reset_expires,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// HasProvider reports whether the account is linked to at least one
// external identity provider. Such accounts may have no password hash.
func (u *User) HasProvider() bool {
	return len(u.Providers) > 0
}

// HasActiveOTP reports whether the single OTP slot holds an unexpired code.
func (u *User) HasActiveOTP(now time.Time) bool {
	return u.OTP != "" && u.OTPExpires != nil && now.Before(*u.OTPExpires)
}

// HasActiveResetToken reports whether the reset slot holds an unexpired token.
func (u *User) HasActiveResetToken(now time.Time) bool {
	return u.ResetToken != "" && u.ResetExpires != nil && now.Before(*u.ResetExpires)
}
