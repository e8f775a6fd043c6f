package services

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/authsystem/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultActivityLimit = 50

// AdminService provides privileged queries and mutations over the
// credential store. Role gating happens in middleware; this layer assumes
// the caller is already an admin.
type AdminService struct {
	userRepo models.UserRepo
}

func NewAdminService(userRepo models.UserRepo) *AdminService {
	return &AdminService{userRepo: userRepo}
}

func (ad *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return ad.userRepo.ListUsers(ctx)
}

func (ad *AdminService) GetStats(ctx context.Context) (*models.UserStats, error) {
	return ad.userRepo.GetUserStats(ctx)
}

// UpdateRole sets a user's role. Invalid roles are rejected before any
// mutation happens.
func (ad *AdminService) UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	return ad.userRepo.UpdateUser(ctx, id, bson.M{"role": role}, nil)
}

func (ad *AdminService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return ad.userRepo.DeleteUser(ctx, id)
}

// ToggleVerified flips the verification flag and returns the updated user.
func (ad *AdminService) ToggleVerified(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := ad.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ad.userRepo.UpdateUser(ctx, id, bson.M{"is_verified": !user.IsVerified}, nil)
}

// ListActivity returns users ordered by most recent login. A non-positive
// limit falls back to the default.
func (ad *AdminService) ListActivity(ctx context.Context, limit int64) ([]*models.User, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return ad.userRepo.ListLoginActivity(ctx, limit)
}
