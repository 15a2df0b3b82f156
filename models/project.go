package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectOnTrack   = "on-track"
	ProjectAtRisk    = "at-risk"
	ProjectDelayed   = "delayed"
	ProjectCompleted = "completed"
)

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
	DueDate     time.Time            `bson:"dueDate" json:"dueDate"`
	Status      string               `bson:"status" json:"status"`
	Progress    int                  `bson:"progress" json:"progress"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectOnTrack, ProjectAtRisk, ProjectDelayed, ProjectCompleted:
		return true
	}
	return false
}

// ClampProgress forces a progress value into [0,100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// HasMember reports whether the user is a team member of the project.
// The owner is not implicitly a member; callers check ownership separately.
func (p Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CanAccess reports whether the user may read or write resources that
// belong to the project: the owner or any team member.
func (p Project) CanAccess(userID primitive.ObjectID) bool {
	return p.Owner == userID || p.HasMember(userID)
}
