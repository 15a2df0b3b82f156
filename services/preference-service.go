package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/backend/models"
)

// PreferenceService is keyed CRUD over per-user theme and template
// presets. No business rules; the server is just durable storage for
// the client's containers.
type PreferenceService struct {
	PreferencesCollection *mongo.Collection
}

func NewPreferenceService(preferences *mongo.Collection) *PreferenceService {
	return &PreferenceService{PreferencesCollection: preferences}
}

func (s *PreferenceService) Put(ctx context.Context, caller primitive.ObjectID, kind, key string, value map[string]any) (*models.Preference, error) {
	if !models.ValidPreferenceKind(kind) {
		return nil, fmt.Errorf("%w: unknown preference kind %q", ErrValidation, kind)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: preference key is required", ErrValidation)
	}

	filter := bson.M{"user": caller, "kind": kind, "key": key}
	update := bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var pref models.Preference
	if err := s.PreferencesCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&pref); err != nil {
		return nil, fmt.Errorf("failed to save preference: %v", err)
	}
	return &pref, nil
}

func (s *PreferenceService) Get(ctx context.Context, caller primitive.ObjectID, kind, key string) (*models.Preference, error) {
	var pref models.Preference
	filter := bson.M{"user": caller, "kind": kind, "key": key}
	if err := s.PreferencesCollection.FindOne(ctx, filter).Decode(&pref); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching preference: %v", err)
	}
	return &pref, nil
}

func (s *PreferenceService) List(ctx context.Context, caller primitive.ObjectID, kind string) ([]models.Preference, error) {
	if !models.ValidPreferenceKind(kind) {
		return nil, fmt.Errorf("%w: unknown preference kind %q", ErrValidation, kind)
	}

	cursor, err := s.PreferencesCollection.Find(ctx, bson.M{"user": caller, "kind": kind})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve preferences: %v", err)
	}
	defer cursor.Close(ctx)

	prefs := []models.Preference{}
	if err := cursor.All(ctx, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %v", err)
	}
	return prefs, nil
}

func (s *PreferenceService) Delete(ctx context.Context, caller primitive.ObjectID, kind, key string) error {
	filter := bson.M{"user": caller, "kind": kind, "key": key}
	result, err := s.PreferencesCollection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
