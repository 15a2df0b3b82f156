package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/backend/models"
)

// SessionService manages focused work sessions: at most one open
// (running or paused) session per user at a time.
type SessionService struct {
	SessionsCollection *mongo.Collection
	Projects           *ProjectService
}

func NewSessionService(sessions *mongo.Collection, projects *ProjectService) *SessionService {
	return &SessionService{SessionsCollection: sessions, Projects: projects}
}

func (s *SessionService) StartSession(ctx context.Context, projectID, taskID string, caller primitive.ObjectID) (*models.WorkSession, error) {
	switch _, err := s.findOpen(ctx, caller); {
	case err == nil:
		return nil, ErrSessionActive
	case !errors.Is(err, ErrNoActiveSession):
		// A failed lookup is not proof there is no open session.
		return nil, err
	}

	project, err := s.Projects.findByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}

	now := time.Now()
	session := &models.WorkSession{
		ID:            primitive.NewObjectID(),
		User:          caller,
		Project:       project.ID,
		State:         models.SessionRunning,
		StartedAt:     now,
		LastResumedAt: now,
	}

	if taskID != "" {
		taskObjectID, err := primitive.ObjectIDFromHex(taskID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid task ID format", ErrValidation)
		}
		session.Task = &taskObjectID
	}

	if _, err := s.SessionsCollection.InsertOne(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %v", err)
	}
	return session, nil
}

func (s *SessionService) PauseSession(ctx context.Context, caller primitive.ObjectID) (*models.WorkSession, error) {
	session, err := s.findOpen(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := session.Pause(time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return session, s.save(ctx, session)
}

func (s *SessionService) ResumeSession(ctx context.Context, caller primitive.ObjectID) (*models.WorkSession, error) {
	session, err := s.findOpen(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := session.Resume(time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return session, s.save(ctx, session)
}

func (s *SessionService) StopSession(ctx context.Context, caller primitive.ObjectID) (*models.WorkSession, error) {
	session, err := s.findOpen(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := session.Stop(time.Now()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return session, s.save(ctx, session)
}

// ListSessions returns the caller's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, caller primitive.ObjectID) ([]models.WorkSession, error) {
	opts := options.Find().SetSort(bson.M{"startedAt": -1}).SetLimit(100)
	cursor, err := s.SessionsCollection.Find(ctx, bson.M{"user": caller}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve sessions: %v", err)
	}
	defer cursor.Close(ctx)

	sessions := []models.WorkSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %v", err)
	}
	return sessions, nil
}

func (s *SessionService) findOpen(ctx context.Context, caller primitive.ObjectID) (*models.WorkSession, error) {
	filter := bson.M{
		"user":  caller,
		"state": bson.M{"$in": []models.SessionState{models.SessionRunning, models.SessionPaused}},
	}
	var session models.WorkSession
	if err := s.SessionsCollection.FindOne(ctx, filter).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("error fetching session: %v", err)
	}
	return &session, nil
}

func (s *SessionService) save(ctx context.Context, session *models.WorkSession) error {
	update := bson.M{"$set": bson.M{
		"state":          session.State,
		"lastResumedAt":  session.LastResumedAt,
		"stoppedAt":      session.StoppedAt,
		"elapsedSeconds": session.ElapsedSeconds,
	}}
	if _, err := s.SessionsCollection.UpdateOne(ctx, bson.M{"_id": session.ID}, update); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}
