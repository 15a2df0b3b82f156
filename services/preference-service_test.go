package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestPutPreferenceReturnsStoredDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert carries the real id", func(mt *mtest.T) {
		svc := NewPreferenceService(mt.Coll)

		prefID := primitive.NewObjectID()
		userID := primitive.NewObjectID()
		stored := bson.D{
			{Key: "_id", Value: prefID},
			{Key: "user", Value: userID},
			{Key: "kind", Value: "theme"},
			{Key: "key", Value: "dark"},
			{Key: "value", Value: bson.D{{Key: "accent", Value: "teal"}}},
			{Key: "updatedAt", Value: time.Now()},
		}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: stored}))

		pref, err := svc.Put(context.Background(), userID, "theme", "dark", map[string]any{"accent": "teal"})
		if err != nil {
			mt.Fatalf("Put: %v", err)
		}
		if pref.ID.IsZero() {
			mt.Fatal("returned preference has a zero id")
		}
		if pref.ID != prefID {
			mt.Fatalf("id = %s, want %s", pref.ID.Hex(), prefID.Hex())
		}
		if pref.Key != "dark" || pref.Kind != "theme" {
			mt.Fatalf("unexpected preference %+v", pref)
		}
	})
}

func TestPutPreferenceValidation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rejects unknown kind and empty key", func(mt *mtest.T) {
		svc := NewPreferenceService(mt.Coll)

		if _, err := svc.Put(context.Background(), primitive.NewObjectID(), "layout", "x", nil); !errors.Is(err, ErrValidation) {
			mt.Fatalf("unknown kind: err = %v, want ErrValidation", err)
		}
		if _, err := svc.Put(context.Background(), primitive.NewObjectID(), "theme", "", nil); !errors.Is(err, ErrValidation) {
			mt.Fatalf("empty key: err = %v, want ErrValidation", err)
		}
	})
}
