package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Team struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	AccessCode string               `bson:"accessCode" json:"accessCode"`
	Project    primitive.ObjectID   `bson:"project" json:"project"`
	Members    []primitive.ObjectID `bson:"members" json:"members"`
	CreatedBy  primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

// TeamDetails is the resolved view returned by the members endpoint:
// member references expanded to display fields, project to name/description.
type TeamDetails struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Members []PublicUser       `json:"members"`
	Project ProjectSummary     `json:"project"`
}

type ProjectSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
}
