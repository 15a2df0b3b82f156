package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"projecthub/backend/models"
)

func TestStartSessionRejectsSecondOpenSession(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("open session exists", func(mt *mtest.T) {
		svc := NewSessionService(mt.Coll, nil)

		caller := primitive.NewObjectID()
		open := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "user", Value: caller},
			{Key: "project", Value: primitive.NewObjectID()},
			{Key: "state", Value: string(models.SessionRunning)},
			{Key: "startedAt", Value: time.Now()},
			{Key: "lastResumedAt", Value: time.Now()},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "projecthub.sessions", mtest.FirstBatch, open))

		if _, err := svc.StartSession(context.Background(), primitive.NewObjectID().Hex(), "", caller); !errors.Is(err, ErrSessionActive) {
			mt.Fatalf("err = %v, want ErrSessionActive", err)
		}

		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "insert" {
				mt.Fatal("second session was created while one is open")
			}
		}
	})
}

func TestStartSessionLookupFailureDoesNotCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lookup error", func(mt *mtest.T) {
		svc := NewSessionService(mt.Coll, nil)

		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized on projecthub",
		}))

		_, err := svc.StartSession(context.Background(), primitive.NewObjectID().Hex(), "", primitive.NewObjectID())
		if err == nil {
			mt.Fatal("expected an error from the failed lookup")
		}
		if errors.Is(err, ErrSessionActive) || errors.Is(err, ErrNoActiveSession) {
			mt.Fatalf("lookup failure surfaced as %v", err)
		}

		// An undecidable lookup must not be treated as "no open session".
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "insert" {
				mt.Fatal("session was created despite the failed lookup")
			}
		}
	})
}
