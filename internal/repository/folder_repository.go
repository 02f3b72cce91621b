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

// FolderRepository handles study folder documents.
type FolderRepository struct {
	collection *mongo.Collection
}

func NewFolderRepository(db *mongo.Database) *FolderRepository {
	return &FolderRepository{
		collection: db.Collection("study_folders"),
	}
}

// CreateFolder inserts a new folder.
func (r *FolderRepository) CreateFolder(ctx context.Context, folder *models.StudyFolder) (*models.StudyFolder, error) {
	folder.Timestamp = time.Now()
	if folder.SetIDs == nil {
		folder.SetIDs = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to insert folder: %v", err)
	}
	return folder, nil
}

// GetFolderByID fetches one folder, or (nil, nil) when absent.
func (r *FolderRepository) GetFolderByID(ctx context.Context, id string) (*models.StudyFolder, error) {
	var folder models.StudyFolder
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find folder: %v", err)
	}
	return &folder, nil
}

// GetFoldersByOwner returns all folders for a user, newest first.
func (r *FolderRepository) GetFoldersByOwner(ctx context.Context, ownerID string) ([]models.StudyFolder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch folders: %v", err)
	}
	defer cursor.Close(ctx)

	var folders []models.StudyFolder
	for cursor.Next(ctx) {
		var folder models.StudyFolder
		if err := cursor.Decode(&folder); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, nil
}

// RenameFolder updates a folder's name.
func (r *FolderRepository) RenameFolder(ctx context.Context, id, name string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return fmt.Errorf("failed to rename folder: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("failed to rename folder: no document for id %s", id)
	}
	return nil
}

// AddSetToFolder unions a set id into the folder's membership.
func (r *FolderRepository) AddSetToFolder(ctx context.Context, folderID, setID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": folderID},
		bson.M{"$addToSet": bson.M{"set_ids": setID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add set to folder: %v", err)
	}
	return nil
}

// RemoveSetFromFolder pulls a set id from the folder's membership.
func (r *FolderRepository) RemoveSetFromFolder(ctx context.Context, folderID, setID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": folderID},
		bson.M{"$pull": bson.M{"set_ids": setID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove set from folder: %v", err)
	}
	return nil
}

// DeleteFolder removes a folder document. Member sets are untouched.
func (r *FolderRepository) DeleteFolder(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete folder: %v", err)
	}
	return nil
}
