package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetRepository handles study set documents.
type SetRepository struct {
	collection *mongo.Collection
}

func NewSetRepository(db *mongo.Database) *SetRepository {
	return &SetRepository{
		collection: db.Collection("study_sets"),
	}
}

// CreateSet inserts a new study set.
func (r *SetRepository) CreateSet(ctx context.Context, set *models.StudySet) (*models.StudySet, error) {
	set.Timestamp = time.Now()
	if _, err := r.collection.InsertOne(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to insert study set: %v", err)
	}
	return set, nil
}

// GetSetByID fetches one set, or (nil, nil) when absent.
func (r *SetRepository) GetSetByID(ctx context.Context, id string) (*models.StudySet, error) {
	var set models.StudySet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&set)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find study set: %v", err)
	}
	return &set, nil
}

// GetSetsByOwner returns all sets for a user, newest first.
func (r *SetRepository) GetSetsByOwner(ctx context.Context, ownerID string) ([]models.StudySet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study sets: %v", err)
	}
	defer cursor.Close(ctx)

	var sets []models.StudySet
	for cursor.Next(ctx) {
		var set models.StudySet
		if err := cursor.Decode(&set); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// GetSetsByIDs fetches sets by id; missing ids are simply absent.
func (r *SetRepository) GetSetsByIDs(ctx context.Context, ids []string) ([]models.StudySet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study sets by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var sets []models.StudySet
	for cursor.Next(ctx) {
		var set models.StudySet
		if err := cursor.Decode(&set); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// UpdateSet overwrites a set's title and terms.
func (r *SetRepository) UpdateSet(ctx context.Context, id string, title string, terms []models.FlashcardTerm) error {
	update := bson.M{"$set": bson.M{
		"title":     title,
		"terms":     terms,
		"timestamp": time.Now(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update study set: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to update study set: no document for id %s", id)
	}
	return nil
}

// DeleteSet removes a set document.
func (r *SetRepository) DeleteSet(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete study set: %v", err)
	}
	return nil
}
