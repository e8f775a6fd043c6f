package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshua-takyi/authsystem/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Profile is the normalized identity-provider profile. Email is empty when
// the provider does not grant (verified) email access.
type Profile struct {
	Provider   string
	ExternalID string
	Name       string
	Email      string
}

// OAuthService reconciles external provider profiles with local accounts.
type OAuthService struct {
	userRepo models.UserRepo
}

func NewOAuthService(userRepo models.UserRepo) *OAuthService {
	return &OAuthService{userRepo: userRepo}
}

// Resolve maps a provider profile onto a local user. Resolution order:
// existing provider link, then email match (link the provider onto that
// account), then a fresh account. Every path leaves the account verified,
// since identity is delegated to the provider.
func (os *OAuthService) Resolve(ctx context.Context, p Profile) (*models.User, error) {
	if p.Provider == "" || p.ExternalID == "" {
		return nil, fmt.Errorf("incomplete provider profile")
	}

	user, err := os.userRepo.GetUserByProvider(ctx, p.Provider, p.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if p.Email != "" {
		existing, err := os.userRepo.GetUserByEmail(ctx, normalizeEmail(p.Email))
		if err == nil {
			return os.userRepo.UpdateUser(ctx, existing.ID, bson.M{
				fmt.Sprintf("providers.%s", p.Provider): p.ExternalID,
				"is_verified":                           true,
			}, nil)
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	email := normalizeEmail(p.Email)
	if email == "" {
		// Provider did not grant email access.
		email = fmt.Sprintf("%s@%s.local", p.ExternalID, p.Provider)
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "OAuth User"
	}

	return os.userRepo.CreateUser(ctx, &models.User{
		Name:       name,
		Email:      email,
		Role:       models.RoleUser,
		IsVerified: true,
		Providers:  map[string]string{p.Provider: p.ExternalID},
	})
}
