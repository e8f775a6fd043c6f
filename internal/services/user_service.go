package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/joshua-takyi/authsystem/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const profilePictureFolder = "profile-pictures"

// UserService handles the authenticated user's own profile.
type UserService struct {
	userRepo models.UserRepo
	cld      *cloudinary.Cloudinary
}

func NewUserService(userRepo models.UserRepo, cld *cloudinary.Cloudinary) *UserService {
	return &UserService{
		userRepo: userRepo,
		cld:      cld,
	}
}

func (us *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}

// UpdateProfile updates the user-editable fields. Empty values leave the
// current value in place.
func (us *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone, bio string) (*models.User, error) {
	set := bson.M{}
	if strings.TrimSpace(name) != "" {
		set["name"] = strings.TrimSpace(name)
	}
	if strings.TrimSpace(phone) != "" {
		set["phone"] = strings.TrimSpace(phone)
	}
	if strings.TrimSpace(bio) != "" {
		set["bio"] = strings.TrimSpace(bio)
	}
	if len(set) == 0 {
		return us.userRepo.GetUserByID(ctx, id)
	}
	return us.userRepo.UpdateUser(ctx, id, set, nil)
}

// UploadProfilePicture stores the image in Cloudinary and persists the
// returned secure URL on the user.
func (us *UserService) UploadProfilePicture(ctx context.Context, id primitive.ObjectID, file io.Reader) (string, error) {
	if us.cld == nil {
		return "", models.ErrProviderUnavailable
	}

	uploadResult, err := us.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: profilePictureFolder,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload profile picture: %v", err)
	}

	if _, err := us.userRepo.UpdateUser(ctx, id, bson.M{
		"profile_picture": uploadResult.SecureURL,
	}, nil); err != nil {
		return "", err
	}
	return uploadResult.SecureURL, nil
}
