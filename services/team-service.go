package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

type TeamService struct {
	TeamsCollection    *mongo.Collection
	UsersCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
	Notifications      *NotificationService
	Activity           *ActivityService
}

func NewTeamService(teams, users, projects *mongo.Collection, notifications *NotificationService, activity *ActivityService) *TeamService {
	return &TeamService{
		TeamsCollection:    teams,
		UsersCollection:    users,
		ProjectsCollection: projects,
		Notifications:      notifications,
		Activity:           activity,
	}
}

// GenerateAccessCode returns 4 random bytes hex-encoded and uppercased,
// the shared secret used to join a team. Collisions are treated as
// negligible; the unique index on accessCode is the backstop.
func GenerateAccessCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access code: %v", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// CreateTeam creates a team for a project with the creator as its sole
// initial member and denormalizes the team identity onto the creator.
func (s *TeamService) CreateTeam(ctx context.Context, name, projectID string, creator models.User) (*models.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidation)
	}

	projectObjectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project ID format", ErrValidation)
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectObjectID}).Decode(&project); err != nil {
		return nil, ErrNotFound
	}

	accessCode, err := GenerateAccessCode()
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:         primitive.NewObjectID(),
		Name:       strings.TrimSpace(name),
		AccessCode: accessCode,
		Project:    projectObjectID,
		Members:    []primitive.ObjectID{creator.ID},
		CreatedBy:  creator.ID,
		CreatedAt:  time.Now(),
	}

	if _, err := s.TeamsCollection.InsertOne(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %v", err)
	}

	// Sequential single-document writes; there is no cross-document
	// transaction here, matching the document-per-update model.
	if err := s.attachUserToTeam(ctx, creator.ID, team, projectObjectID); err != nil {
		return nil, err
	}

	s.Activity.Record(ctx, models.ActivityCreate, "team", team.ID, creator.ID, fmt.Sprintf("created team %q", team.Name))
	logging.Logger.Infof("Team %s created for project %s by %s", team.ID.Hex(), projectID, creator.Email)
	return team, nil
}

// JoinTeam adds the caller to the team matching the access code. A user
// already on a team cannot join another; nothing is mutated in that case.
func (s *TeamService) JoinTeam(ctx context.Context, accessCode string, caller models.User) (*models.Team, error) {
	accessCode = strings.ToUpper(strings.TrimSpace(accessCode))
	if accessCode == "" {
		return nil, fmt.Errorf("%w: access code is required", ErrValidation)
	}

	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"accessCode": accessCode}).Decode(&team); err != nil {
		return nil, ErrTeamNotFound
	}

	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
		return nil, ErrNotFound
	}
	if user.IsTeamMember {
		return nil, ErrAlreadyTeamMember
	}

	if _, err := s.TeamsCollection.UpdateOne(ctx,
		bson.M{"_id": team.ID},
		bson.M{"$addToSet": bson.M{"members": caller.ID}},
	); err != nil {
		return nil, fmt.Errorf("failed to join team: %v", err)
	}

	if err := s.attachUserToTeam(ctx, caller.ID, &team, team.Project); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s joined your team %q.", user.Name, team.Name)
	s.notifyTeam(ctx, &team, caller.ID, message)

	s.Activity.Record(ctx, models.ActivityUpdate, "team", team.ID, caller.ID, fmt.Sprintf("joined team %q", team.Name))
	return &team, nil
}

// LeaveTeam removes the caller from their current team and clears the
// denormalized team fields on the user record.
func (s *TeamService) LeaveTeam(ctx context.Context, caller models.User) error {
	var user models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": caller.ID}).Decode(&user); err != nil {
		return ErrNotFound
	}
	if !user.IsTeamMember {
		return ErrNotTeamMember
	}

	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"accessCode": user.TeamCode}).Decode(&team); err != nil {
		return ErrTeamNotFound
	}

	if _, err := s.TeamsCollection.UpdateOne(ctx,
		bson.M{"_id": team.ID},
		bson.M{"$pull": bson.M{"members": caller.ID}},
	); err != nil {
		return fmt.Errorf("failed to leave team: %v", err)
	}

	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": caller.ID},
		bson.M{
			"$set":   bson.M{"isTeamMember": false},
			"$unset": bson.M{"teamCode": "", "teamName": ""},
			"$pull":  bson.M{"projects": team.Project},
		},
	); err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": team.Project},
		bson.M{"$pull": bson.M{"members": caller.ID}},
	); err != nil {
		return fmt.Errorf("failed to update project members: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityUpdate, "team", team.ID, caller.ID, fmt.Sprintf("left team %q", team.Name))
	return nil
}

// GetTeamMembers returns the team with member references resolved to
// display fields and the project to its name and description.
func (s *TeamService) GetTeamMembers(ctx context.Context, teamID string) (*models.TeamDetails, error) {
	objectID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid team ID format", ErrValidation)
	}

	var team models.Team
	if err := s.TeamsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&team); err != nil {
		return nil, ErrTeamNotFound
	}

	cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": team.Members}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team members: %v", err)
	}
	defer cursor.Close(ctx)

	var members []models.PublicUser
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode team members: %v", err)
	}

	var project models.ProjectSummary
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": team.Project}).Decode(&project); err != nil {
		return nil, fmt.Errorf("failed to fetch team project: %v", err)
	}

	return &models.TeamDetails{
		ID:      team.ID,
		Name:    team.Name,
		Members: members,
		Project: project,
	}, nil
}

// attachUserToTeam denormalizes team identity onto the user record and
// registers the membership on both the user's and the project's side.
func (s *TeamService) attachUserToTeam(ctx context.Context, userID primitive.ObjectID, team *models.Team, projectID primitive.ObjectID) error {
	if _, err := s.UsersCollection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set":      bson.M{"teamCode": team.AccessCode, "teamName": team.Name, "isTeamMember": true},
			"$addToSet": bson.M{"projects": projectID},
		},
	); err != nil {
		return fmt.Errorf("failed to update user team info: %v", err)
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	); err != nil {
		return fmt.Errorf("failed to update project members: %v", err)
	}
	return nil
}

// notifyTeam writes a notification for every member except the actor.
func (s *TeamService) notifyTeam(ctx context.Context, team *models.Team, actor primitive.ObjectID, message string) {
	cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": team.Members}})
	if err != nil {
		logging.Logger.Errorf("Failed to fetch team members for notification: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		logging.Logger.Errorf("Failed to decode team members for notification: %v", err)
		return
	}

	for _, member := range members {
		if member.ID == actor {
			continue
		}
		if err := s.Notifications.CreateNotification(member.ID.Hex(), member.Email, message); err != nil {
			logging.Logger.Errorf("Failed to notify %s: %v", member.Email, err)
		}
	}
}
