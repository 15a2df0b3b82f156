package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	Activity           *ActivityService
}

func NewProjectService(projectsCollection *mongo.Collection, activity *ActivityService) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		Activity:           activity,
	}
}

type ProjectInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status"`
	Progress    *int      `json:"progress"`
}

// CreateProject creates a project owned by the caller. Name and due date
// are required; progress is clamped into [0,100].
func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput, owner primitive.ObjectID) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = models.ProjectOnTrack
	}
	if !models.ValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: invalid project status %q", ErrValidation, status)
	}

	progress := 0
	if in.Progress != nil {
		progress = models.ClampProgress(*in.Progress)
	}

	now := time.Now()
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Owner:       owner,
		Members:     []primitive.ObjectID{},
		DueDate:     in.DueDate,
		Status:      status,
		Progress:    progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.ProjectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)

	s.Activity.Record(ctx, models.ActivityCreate, "project", project.ID, owner, fmt.Sprintf("created project %q", project.Name))
	logging.Logger.Infof("Project %s created by %s", project.ID.Hex(), owner.Hex())
	return project, nil
}

// GetAllProjects returns every project, newest first. Any authenticated
// user may list all projects; writes stay owner-restricted.
func (s *ProjectService) GetAllProjects(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

// GetProject returns a single project. Only the owner or a team member
// may read an individual project.
func (s *ProjectService) GetProject(ctx context.Context, projectID string, caller primitive.ObjectID) (*models.Project, error) {
	project, err := s.findByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}
	return project, nil
}

// UpdateProject applies the provided fields. Owner only.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, in ProjectInput, caller primitive.ObjectID) (*models.Project, error) {
	project, err := s.findByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Owner != caller {
		return nil, ErrForbidden
	}

	set := bson.M{"updatedAt": time.Now()}
	if strings.TrimSpace(in.Name) != "" {
		set["name"] = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		set["description"] = strings.TrimSpace(in.Description)
	}
	if !in.DueDate.IsZero() {
		set["dueDate"] = in.DueDate
	}
	if in.Status != "" {
		if !models.ValidProjectStatus(in.Status) {
			return nil, fmt.Errorf("%w: invalid project status %q", ErrValidation, in.Status)
		}
		set["status"] = in.Status
	}
	if in.Progress != nil {
		set["progress"] = models.ClampProgress(*in.Progress)
	}

	if _, err := s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityUpdate, "project", project.ID, caller, fmt.Sprintf("updated project %q", project.Name))
	return s.findByID(ctx, projectID)
}

// DeleteProject removes the project. Owner only.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string, caller primitive.ObjectID) error {
	project, err := s.findByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.Owner != caller {
		return ErrForbidden
	}

	if _, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityDelete, "project", project.ID, caller, fmt.Sprintf("deleted project %q", project.Name))
	logging.Logger.Infof("Project %s deleted by %s", project.ID.Hex(), caller.Hex())
	return nil
}

// AccessibleProjectIDs returns the ids of every project the user owns or
// belongs to. Task queries are narrowed to this set.
func (s *ProjectService) AccessibleProjectIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner": userID},
		{"members": userID},
	}}
	cursor, err := s.ProjectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}

	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *ProjectService) findByID(ctx context.Context, projectID string) (*models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project ID format", ErrValidation)
	}

	var project models.Project
	if err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}
	return &project, nil
}
