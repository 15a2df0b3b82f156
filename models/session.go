package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionState string

const (
	SessionRunning SessionState = "running"
	SessionPaused  SessionState = "paused"
	SessionStopped SessionState = "stopped"
)

// WorkSession tracks one focused work session per user. Elapsed time is
// accumulated from segment boundaries on the server; client-supplied
// totals are never trusted.
type WorkSession struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User           primitive.ObjectID  `bson:"user" json:"user"`
	Project        primitive.ObjectID  `bson:"project" json:"project"`
	Task           *primitive.ObjectID `bson:"task,omitempty" json:"task,omitempty"`
	State          SessionState        `bson:"state" json:"state"`
	StartedAt      time.Time           `bson:"startedAt" json:"startedAt"`
	LastResumedAt  time.Time           `bson:"lastResumedAt" json:"lastResumedAt"`
	StoppedAt      time.Time           `bson:"stoppedAt,omitempty" json:"stoppedAt,omitempty"`
	ElapsedSeconds int64               `bson:"elapsedSeconds" json:"elapsedSeconds"`
}

func (s *WorkSession) Pause(now time.Time) error {
	if s.State != SessionRunning {
		return fmt.Errorf("cannot pause a session in state %q", s.State)
	}
	s.ElapsedSeconds += int64(now.Sub(s.LastResumedAt).Seconds())
	s.State = SessionPaused
	return nil
}

func (s *WorkSession) Resume(now time.Time) error {
	if s.State != SessionPaused {
		return fmt.Errorf("cannot resume a session in state %q", s.State)
	}
	s.LastResumedAt = now
	s.State = SessionRunning
	return nil
}

func (s *WorkSession) Stop(now time.Time) error {
	switch s.State {
	case SessionRunning:
		s.ElapsedSeconds += int64(now.Sub(s.LastResumedAt).Seconds())
	case SessionPaused:
	default:
		return fmt.Errorf("cannot stop a session in state %q", s.State)
	}
	s.State = SessionStopped
	s.StoppedAt = now
	return nil
}

// Elapsed returns accumulated seconds including the open segment of a
// running session.
func (s *WorkSession) Elapsed(now time.Time) int64 {
	if s.State == SessionRunning {
		return s.ElapsedSeconds + int64(now.Sub(s.LastResumedAt).Seconds())
	}
	return s.ElapsedSeconds
}
