package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/authsystem/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory stand-in for the Mongo repository. It
// mirrors the write semantics the services rely on: $set/$unset field
// updates, read-modify-write, last-write-wins.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, models.ErrConflict
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) GetUserByProvider(ctx context.Context, provider, externalID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Providers[provider] == externalID && externalID != "" {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ResetToken == token && token != "" {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	for k, v := range set {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "password":
			u.Password = v.(string)
		case "profile_picture":
			u.ProfilePicture = v.(string)
		case "role":
			u.Role = v.(string)
		case "is_verified":
			u.IsVerified = v.(bool)
		case "otp":
			u.OTP = v.(string)
		case "otp_expires":
			t := v.(time.Time)
			u.OTPExpires = &t
		case "reset_token":
			u.ResetToken = v.(string)
		case "reset_expires":
			t := v.(time.Time)
			u.ResetExpires = &t
		default:
			if strings.HasPrefix(k, "providers.") {
				if u.Providers == nil {
					u.Providers = make(map[string]string)
				}
				u.Providers[strings.TrimPrefix(k, "providers.")] = v.(string)
			}
		}
	}
	for _, k := range unset {
		switch k {
		case "otp":
			u.OTP = ""
		case "otp_expires":
			u.OTPExpires = nil
		case "reset_token":
			u.ResetToken = ""
		case "reset_expires":
			u.ResetExpires = nil
		}
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	u.LoginCount++
	u.UpdatedAt = now
	return u, nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (f *fakeUserRepo) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	stats := &models.UserStats{}
	for _, u := range f.users {
		stats.TotalUsers++
		if u.IsVerified {
			stats.VerifiedUsers++
		}
		if u.Role == models.RoleAdmin {
			stats.AdminUsers++
		}
		if u.CreatedAt.After(now.Add(-7 * 24 * time.Hour)) {
			stats.RecentUsers++
		}
		if u.LastLogin != nil && u.LastLogin.After(now.Add(-24*time.Hour)) {
			stats.RecentLogins++
		}
	}
	stats.UnverifiedUsers = stats.TotalUsers - stats.VerifiedUsers
	return stats, nil
}

func (f *fakeUserRepo) ListLoginActivity(ctx context.Context, limit int64) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var users []*models.User
	for _, u := range f.users {
		if u.LastLogin != nil {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].LastLogin.After(*users[j].LastLogin)
	})
	if int64(len(users)) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

// fakeMailer records deliveries and can be told to fail.
type fakeMailer struct {
	otpSent   []string
	resetSent []string
	fail      bool
}

func (m *fakeMailer) SendOTPEmail(to, name, code string) error {
	if m.fail {
		return errFakeDelivery
	}
	m.otpSent = append(m.otpSent, code)
	return nil
}

func (m *fakeMailer) SendResetEmail(to, resetURL string) error {
	if m.fail {
		return errFakeDelivery
	}
	m.resetSent = append(m.resetSent, resetURL)
	return nil
}

type fakeSMS struct {
	sent []string
	fail bool
}

func (s *fakeSMS) SendOTP(to, code string) error {
	if s.fail {
		return errFakeDelivery
	}
	s.sent = append(s.sent, code)
	return nil
}
