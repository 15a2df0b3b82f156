package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PreferenceTheme    = "theme"
	PreferenceTemplate = "template"
)

// Preference is a user-defined preset: a theme or a task template,
// stored one document per (user, kind, key).
type Preference struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Kind      string             `bson:"kind" json:"kind"`
	Key       string             `bson:"key" json:"key"`
	Value     map[string]any     `bson:"value" json:"value"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidPreferenceKind(kind string) bool {
	return kind == PreferenceTheme || kind == PreferenceTemplate
}
