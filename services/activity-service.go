package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

type ActivityService struct {
	ActivitiesCollection *mongo.Collection
}

func NewActivityService(activities *mongo.Collection) *ActivityService {
	return &ActivityService{ActivitiesCollection: activities}
}

// Record appends an entry to the audit trail. Failures are logged and
// swallowed; auditing never fails the primary operation.
func (s *ActivityService) Record(ctx context.Context, activityType models.ActivityType, entityType string, entityID, userID primitive.ObjectID, details string) {
	activity := models.Activity{
		ID:         primitive.NewObjectID(),
		Type:       activityType,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Details:    details,
		Timestamp:  time.Now(),
	}

	if _, err := s.ActivitiesCollection.InsertOne(ctx, activity); err != nil {
		logging.Logger.Errorf("Failed to record activity %s/%s: %v", activityType, entityType, err)
	}
}

// List returns audit entries newest first, optionally filtered by type
// or by an (entityType, entityId) pair.
func (s *ActivityService) List(ctx context.Context, activityType, entityType, entityID string) ([]models.Activity, error) {
	filter := bson.M{}
	if activityType != "" {
		filter["type"] = activityType
	}
	if entityType != "" {
		filter["entityType"] = entityType
	}
	if entityID != "" {
		objectID, err := primitive.ObjectIDFromHex(entityID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid entity ID format", ErrValidation)
		}
		filter["entityId"] = objectID
	}

	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(200)
	cursor, err := s.ActivitiesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve activities: %v", err)
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %v", err)
	}
	return activities, nil
}
