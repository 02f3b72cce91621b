package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.Username = strings.ToLower(user.Username)

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	logrus.WithField("userID", user.ID).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID. Returns (nil, nil) when no such
// document exists, so a dangling friend reference is not an error.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Warn("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their lowercase username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": strings.ToLower(username)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %v", err)
	}
	return &user, nil
}

// GetUserByVerificationToken looks up the user owning an email verify token.
func (r *UserRepository) GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"verify_token": token}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by verification token: %v", err)
	}
	return &user, nil
}

// GetUserByResetToken looks up the user owning a password reset token, or
// (nil, nil) when no user holds it.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"reset_token": token}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by reset token: %v", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user's fields.
func (r *UserRepository) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to update user: no document for id %s", id)
	}
	return nil
}

// DeleteUser removes a user document. Referencing records are left in place;
// readers tolerate the dangling ids.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %v", err)
	}
	logrus.WithField("userID", id).Info("User deleted successfully")
	return nil
}

// AddFriend unions friendID into the user's friends array.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": friendID}}, // avoid duplicates
	)
	if err != nil {
		return fmt.Errorf("failed to add friend: %v", err)
	}
	return nil
}

// RemoveFriend pulls friendID from userID's friends array only. The reverse
// direction is intentionally left untouched; see the relationship service.
func (r *UserRepository) RemoveFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"friends": friendID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove friend from user %s: %v", userID, err)
	}
	return nil
}

// GetFriendIDs returns the raw friends array for a user.
func (r *UserRepository) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user for friend list: %v", err)
	}
	return user.Friends, nil
}

// GetUsersByIDs fetches user documents for a list of ids. Ids with no
// matching document are silently absent from the result.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// SearchUsersByUsernamePrefix matches usernames starting with the
// case-normalized prefix, excluding the given ids.
func (r *UserRepository) SearchUsersByUsernamePrefix(ctx context.Context, prefix string, excluding []string) ([]models.User, error) {
	filter := bson.M{
		"username": bson.M{"$regex": primitive.Regex{
			Pattern: "^" + escapeRegex(strings.ToLower(prefix)),
		}},
	}
	if len(excluding) > 0 {
		filter["_id"] = bson.M{"$nin": excluding}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}
