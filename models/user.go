package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleMember  = "member"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"password,omitempty"`
	Role         string               `bson:"role" json:"role"`
	TeamCode     string               `bson:"teamCode,omitempty" json:"teamCode,omitempty"`
	TeamName     string               `bson:"teamName,omitempty" json:"teamName,omitempty"`
	IsTeamMember bool                 `bson:"isTeamMember" json:"isTeamMember"`
	Projects     []primitive.ObjectID `bson:"projects" json:"projects"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// PublicUser is the display shape used in team member listings and auth
// responses. It never carries the password hash.
type PublicUser struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role" json:"role"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
