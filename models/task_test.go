package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newComment(text string) Comment {
	return Comment{
		ID:        primitive.NewObjectID(),
		User:      primitive.NewObjectID(),
		Text:      text,
		CreatedAt: time.Now(),
	}
}

func TestAddCommentTopLevel(t *testing.T) {
	task := &Task{}
	if err := task.AddComment(primitive.NilObjectID, newComment("first")); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(task.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(task.Comments))
	}
	if task.Comments[0].Text != "first" {
		t.Fatalf("unexpected comment text: %s", task.Comments[0].Text)
	}
}

func TestAddCommentReply(t *testing.T) {
	task := &Task{}
	parent := newComment("parent")
	if err := task.AddComment(primitive.NilObjectID, parent); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if err := task.AddComment(parent.ID, newComment("reply")); err != nil {
		t.Fatalf("AddComment reply: %v", err)
	}
	if len(task.Comments[0].Replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(task.Comments[0].Replies))
	}
}

func TestAddCommentUnknownParent(t *testing.T) {
	task := &Task{}
	if err := task.AddComment(primitive.NewObjectID(), newComment("orphan")); err == nil {
		t.Fatal("expected error for unknown parent")
	}
}

func TestAddCommentDepthLimit(t *testing.T) {
	task := &Task{}
	parent := newComment("level 1")
	if err := task.AddComment(primitive.NilObjectID, parent); err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	for depth := 2; depth <= MaxCommentDepth; depth++ {
		child := newComment("nested")
		if err := task.AddComment(parent.ID, child); err != nil {
			t.Fatalf("AddComment at depth %d: %v", depth, err)
		}
		parent = child
	}
	if err := task.AddComment(parent.ID, newComment("too deep")); err == nil {
		t.Fatalf("expected reply beyond depth %d to be rejected", MaxCommentDepth)
	}
}

func TestValidTaskStatus(t *testing.T) {
	for _, status := range []TaskStatus{StatusTodo, StatusInProgress, StatusDone} {
		if !ValidTaskStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if ValidTaskStatus("archived") {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestValidTaskPriority(t *testing.T) {
	for _, priority := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidTaskPriority(priority) {
			t.Fatalf("expected %q to be valid", priority)
		}
	}
	if ValidTaskPriority("urgent") {
		t.Fatal("expected unknown priority to be invalid")
	}
}
