package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersColName = "users"

// secretFields are never returned by list/activity queries.
var secretFields = []string{"password", "otp", "otp_expires", "reset_token", "reset_expires", "providers"}

type UserStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	VerifiedUsers   int64 `json:"verifiedUsers"`
	UnverifiedUsers int64 `json:"unverifiedUsers"`
	AdminUsers      int64 `json:"adminUsers"`
	RecentUsers     int64 `json:"recentUsers"`
	RecentLogins    int64 `json:"recentLogins"`
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByProvider(ctx context.Context, provider, externalID string) (*User, error)
	GetUserByResetToken(ctx context.Context, token string) (*User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*User, error)
	RecordLogin(ctx context.Context, id primitive.ObjectID) (*User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ListUsers(ctx context.Context) ([]*User, error)
	GetUserStats(ctx context.Context) (*UserStats, error)
	ListLoginActivity(ctx context.Context, limit int64) ([]*User, error)
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the unique email index backing the email invariant.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return err
	}
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating email index: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("error inserting user: %v", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("invalid user ID")
	}
	return mdb.findOne(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findOne(ctx, bson.M{"email": email})
}

func (mdb *MongodbRepo) GetUserByProvider(ctx context.Context, provider, externalID string) (*User, error) {
	return mdb.findOne(ctx, bson.M{fmt.Sprintf("providers.%s", provider): externalID})
}

func (mdb *MongodbRepo) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	return mdb.findOne(ctx, bson.M{"reset_token": token})
}

// UpdateUser applies set and unset in a single write and returns the updated
// document. updated_at is always refreshed.
func (mdb *MongodbRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if set == nil {
		set = bson.M{}
	}
	set["updated_at"] = time.Now()

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		fields := bson.M{}
		for _, f := range unset {
			fields[f] = ""
		}
		update["$unset"] = fields
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result User
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}
	return &result, nil
}

// RecordLogin stamps last_login and bumps the login counter.
func (mdb *MongodbRepo) RecordLogin(ctx context.Context, id primitive.ObjectID) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{"last_login": now, "updated_at": now},
		"$inc": bson.M{"login_count": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result User
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error recording login: %v", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting user: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (mdb *MongodbRepo) decodeUsers(ctx context.Context, cursor *mongo.Cursor) ([]*User, error) {
	defer cursor.Close(ctx)

	var users []*User
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("error decoding user: %v", err)
		}
		users = append(users, &user)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return users, nil
}

// ListUsers returns all users sorted by newest first, secret fields excluded.
func (mdb *MongodbRepo) ListUsers(ctx context.Context) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	projection := bson.M{}
	for _, f := range secretFields {
		projection[f] = 0
	}
	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %v", err)
	}
	return mdb.decodeUsers(ctx, cursor)
}

func (mdb *MongodbRepo) GetUserStats(ctx context.Context) (*UserStats, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	counts := []struct {
		dest   *int64
		filter bson.M
	}{
		{nil, bson.M{}}, // total, filled below
		{nil, bson.M{"is_verified": true}},
		{nil, bson.M{"role": RoleAdmin}},
		{nil, bson.M{"created_at": bson.M{"$gte": now.Add(-7 * 24 * time.Hour)}}},
		{nil, bson.M{"last_login": bson.M{"$gte": now.Add(-24 * time.Hour)}}},
	}

	stats := &UserStats{}
	counts[0].dest = &stats.TotalUsers
	counts[1].dest = &stats.VerifiedUsers
	counts[2].dest = &stats.AdminUsers
	counts[3].dest = &stats.RecentUsers
	counts[4].dest = &stats.RecentLogins

	for _, c := range counts {
		n, err := col.CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("error counting users: %v", err)
		}
		*c.dest = n
	}
	stats.UnverifiedUsers = stats.TotalUsers - stats.VerifiedUsers
	return stats, nil
}

// ListLoginActivity returns users that have logged in at least once, most
// recent first, capped at limit.
func (mdb *MongodbRepo) ListLoginActivity(ctx context.Context, limit int64) ([]*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	projection := bson.M{}
	for _, f := range secretFields {
		projection[f] = 0
	}
	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "last_login", Value: -1}}).
		SetLimit(limit)

	cursor, err := col.Find(ctx, bson.M{"last_login": bson.M{"$exists": true}}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing login activity: %v", err)
	}
	return mdb.decodeUsers(ctx, cursor)
}
