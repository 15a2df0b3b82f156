package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func runningSession(start time.Time) *WorkSession {
	return &WorkSession{
		ID:            primitive.NewObjectID(),
		User:          primitive.NewObjectID(),
		Project:       primitive.NewObjectID(),
		State:         SessionRunning,
		StartedAt:     start,
		LastResumedAt: start,
	}
}

func TestSessionPauseAccumulates(t *testing.T) {
	start := time.Now()
	s := runningSession(start)

	if err := s.Pause(start.Add(90 * time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if s.State != SessionPaused {
		t.Fatalf("state = %q, want paused", s.State)
	}
	if s.ElapsedSeconds != 90 {
		t.Fatalf("elapsed = %d, want 90", s.ElapsedSeconds)
	}
}

func TestSessionPauseResumeStop(t *testing.T) {
	start := time.Now()
	s := runningSession(start)

	if err := s.Pause(start.Add(60 * time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := s.Resume(start.Add(5 * time.Minute)); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if s.State != SessionRunning {
		t.Fatalf("state = %q, want running", s.State)
	}

	stopAt := start.Add(5*time.Minute + 30*time.Second)
	if err := s.Stop(stopAt); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.State != SessionStopped {
		t.Fatalf("state = %q, want stopped", s.State)
	}
	// 60s before the pause plus 30s after the resume.
	if s.ElapsedSeconds != 90 {
		t.Fatalf("elapsed = %d, want 90", s.ElapsedSeconds)
	}
	if !s.StoppedAt.Equal(stopAt) {
		t.Fatalf("stoppedAt = %v, want %v", s.StoppedAt, stopAt)
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	start := time.Now()

	s := runningSession(start)
	if err := s.Resume(start); err == nil {
		t.Fatal("resuming a running session should fail")
	}

	if err := s.Pause(start.Add(time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := s.Pause(start.Add(2 * time.Second)); err == nil {
		t.Fatal("pausing a paused session should fail")
	}

	if err := s.Stop(start.Add(3 * time.Second)); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(start.Add(4 * time.Second)); err == nil {
		t.Fatal("stopping a stopped session should fail")
	}
	if err := s.Pause(start.Add(4 * time.Second)); err == nil {
		t.Fatal("pausing a stopped session should fail")
	}
}

func TestSessionElapsedIncludesOpenSegment(t *testing.T) {
	start := time.Now()
	s := runningSession(start)
	s.ElapsedSeconds = 120

	if got := s.Elapsed(start.Add(30 * time.Second)); got != 150 {
		t.Fatalf("Elapsed = %d, want 150", got)
	}

	if err := s.Pause(start.Add(30 * time.Second)); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if got := s.Elapsed(start.Add(10 * time.Minute)); got != 150 {
		t.Fatalf("Elapsed after pause = %d, want 150", got)
	}
}
