package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// MaxCommentDepth caps reply nesting; the schema itself is recursive and
// would otherwise allow unbounded trees.
const MaxCommentDepth = 4

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Replies   []Comment          `bson:"replies" json:"replies"`
}

type Task struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Status      TaskStatus           `bson:"status" json:"status"`
	Priority    TaskPriority         `bson:"priority" json:"priority"`
	DueDate     time.Time            `bson:"dueDate,omitempty" json:"dueDate"`
	AssignedTo  []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	Project     primitive.ObjectID   `bson:"project" json:"project"`
	Tags        []string             `bson:"tags" json:"tags"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func ValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AddComment appends a comment to the task. A zero parentID makes it a
// top-level comment; otherwise the comment becomes a reply to the parent.
// Replies deeper than MaxCommentDepth are rejected.
func (t *Task) AddComment(parentID primitive.ObjectID, comment Comment) error {
	if parentID.IsZero() {
		t.Comments = append(t.Comments, comment)
		return nil
	}
	if attachReply(t.Comments, parentID, comment, 1) {
		return nil
	}
	return fmt.Errorf("parent comment %s not found or nested too deep", parentID.Hex())
}

func attachReply(comments []Comment, parentID primitive.ObjectID, reply Comment, depth int) bool {
	for i := range comments {
		if comments[i].ID == parentID {
			if depth >= MaxCommentDepth {
				return false
			}
			comments[i].Replies = append(comments[i].Replies, reply)
			return true
		}
		if attachReply(comments[i].Replies, parentID, reply, depth+1) {
			return true
		}
	}
	return false
}
