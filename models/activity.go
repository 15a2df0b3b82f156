package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityCreate  ActivityType = "create"
	ActivityUpdate  ActivityType = "update"
	ActivityDelete  ActivityType = "delete"
	ActivityComment ActivityType = "comment"
)

// Activity is one entry of the append-only audit trail. Entries are
// written by the services on every mutating operation and never updated.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type       ActivityType       `bson:"type" json:"type"`
	EntityType string             `bson:"entityType" json:"entityType"`
	EntityID   primitive.ObjectID `bson:"entityId" json:"entityId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Details    string             `bson:"details" json:"details"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
