package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

type TaskService struct {
	TasksCollection *mongo.Collection
	UsersCollection *mongo.Collection
	Projects        *ProjectService
	Notifications   *NotificationService
	Activity        *ActivityService
	Mailer          Mailer
}

// Mailer delivers best-effort email. Failures are logged and swallowed;
// they never fail the primary operation.
type Mailer interface {
	Send(to, subject, body string) error
}

func NewTaskService(tasks, users *mongo.Collection, projects *ProjectService, notifications *NotificationService, activity *ActivityService, mailer Mailer) *TaskService {
	return &TaskService{
		TasksCollection: tasks,
		UsersCollection: users,
		Projects:        projects,
		Notifications:   notifications,
		Activity:        activity,
		Mailer:          mailer,
	}
}

type TaskInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.TaskStatus    `json:"status"`
	Priority    models.TaskPriority  `json:"priority"`
	DueDate     time.Time            `json:"dueDate"`
	AssignedTo  []primitive.ObjectID `json:"assignedTo"`
	Project     string               `json:"project"`
	Tags        []string             `json:"tags"`
}

// CreateTask creates a task inside a project the caller owns or belongs
// to. Each assignee gets a notification and a best-effort email.
func (s *TaskService) CreateTask(ctx context.Context, in TaskInput, caller primitive.ObjectID) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrValidation)
	}

	project, err := s.Projects.findByID(ctx, in.Project)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}

	status := in.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: invalid task status %q", ErrValidation, status)
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityLow
	}
	if !models.ValidTaskPriority(priority) {
		return nil, fmt.Errorf("%w: invalid task priority %q", ErrValidation, priority)
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		AssignedTo:  in.AssignedTo,
		Project:     project.ID,
		Tags:        in.Tags,
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.AssignedTo == nil {
		task.AssignedTo = []primitive.ObjectID{}
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	result, err := s.TasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	s.Activity.Record(ctx, models.ActivityCreate, "task", task.ID, caller, fmt.Sprintf("created task %q in project %q", task.Title, project.Name))
	s.notifyAssignees(ctx, task, project)

	return task, nil
}

// GetTasks lists tasks in projects the caller owns or belongs to. An
// explicit project filter narrows the set, never widens it.
func (s *TaskService) GetTasks(ctx context.Context, projectFilter string, caller primitive.ObjectID) ([]models.Task, error) {
	allowed, err := s.Projects.AccessibleProjectIDs(ctx, caller)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"project": bson.M{"$in": allowed}}
	if projectFilter != "" {
		projectID, err := primitive.ObjectIDFromHex(projectFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid project ID format", ErrValidation)
		}
		found := false
		for _, id := range allowed {
			if id == projectID {
				found = true
				break
			}
		}
		if !found {
			return []models.Task{}, nil
		}
		filter = bson.M{"project": projectID}
	}

	cursor, err := s.TasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID string, caller primitive.ObjectID) (*models.Task, error) {
	task, project, err := s.findWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}
	return task, nil
}

// UpdateTask applies the provided fields. Gated by the owning project's
// membership, same as reads.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, in TaskInput, caller primitive.ObjectID) (*models.Task, error) {
	task, project, err := s.findWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}

	set := bson.M{"updatedAt": time.Now()}
	if strings.TrimSpace(in.Title) != "" {
		set["title"] = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		set["description"] = in.Description
	}
	if in.Status != "" {
		if !models.ValidTaskStatus(in.Status) {
			return nil, fmt.Errorf("%w: invalid task status %q", ErrValidation, in.Status)
		}
		set["status"] = in.Status
	}
	if in.Priority != "" {
		if !models.ValidTaskPriority(in.Priority) {
			return nil, fmt.Errorf("%w: invalid task priority %q", ErrValidation, in.Priority)
		}
		set["priority"] = in.Priority
	}
	if !in.DueDate.IsZero() {
		set["dueDate"] = in.DueDate
	}
	if in.AssignedTo != nil {
		set["assignedTo"] = in.AssignedTo
	}
	if in.Tags != nil {
		set["tags"] = in.Tags
	}

	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityUpdate, "task", task.ID, caller, fmt.Sprintf("updated task %q", task.Title))

	var updated models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": task.ID}).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}
	return &updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID string, caller primitive.ObjectID) error {
	task, project, err := s.findWithProject(ctx, taskID)
	if err != nil {
		return err
	}
	if !project.CanAccess(caller) {
		return ErrForbidden
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityDelete, "task", task.ID, caller, fmt.Sprintf("deleted task %q", task.Title))
	return nil
}

// AddComment attaches a comment to the task, optionally as a reply to an
// existing comment. Reply nesting past models.MaxCommentDepth fails.
func (s *TaskService) AddComment(ctx context.Context, taskID, parentID, text string, caller primitive.ObjectID) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	task, project, err := s.findWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !project.CanAccess(caller) {
		return nil, ErrForbidden
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      caller,
		Text:      text,
		CreatedAt: time.Now(),
		Replies:   []models.Comment{},
	}

	parent := primitive.NilObjectID
	if parentID != "" {
		parent, err = primitive.ObjectIDFromHex(parentID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid parent comment ID format", ErrValidation)
		}
	}

	if err := task.AddComment(parent, comment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	update := bson.M{"$set": bson.M{"comments": task.Comments, "updatedAt": time.Now()}}
	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, update); err != nil {
		return nil, fmt.Errorf("failed to save comment: %v", err)
	}

	s.Activity.Record(ctx, models.ActivityComment, "task", task.ID, caller, fmt.Sprintf("commented on task %q", task.Title))
	return task, nil
}

func (s *TaskService) findWithProject(ctx context.Context, taskID string) (*models.Task, *models.Project, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid task ID format", ErrValidation)
	}

	var task models.Task
	if err := s.TasksCollection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("error fetching task: %v", err)
	}

	project, err := s.Projects.findByID(ctx, task.Project.Hex())
	if err != nil {
		return nil, nil, err
	}
	return &task, project, nil
}

// notifyAssignees writes a notification row and sends an email to every
// assignee. Both are best-effort.
func (s *TaskService) notifyAssignees(ctx context.Context, task *models.Task, project *models.Project) {
	for _, assigneeID := range task.AssignedTo {
		var assignee models.User
		if err := s.UsersCollection.FindOne(ctx, bson.M{"_id": assigneeID}).Decode(&assignee); err != nil {
			logging.Logger.Warnf("Assignee %s not found, skipping notification: %v", assigneeID.Hex(), err)
			continue
		}

		message := fmt.Sprintf("You have been assigned to task %q in project %q.", task.Title, project.Name)
		if err := s.Notifications.CreateNotification(assignee.ID.Hex(), assignee.Email, message); err != nil {
			logging.Logger.Errorf("Failed to create notification for %s: %v", assignee.Email, err)
		}

		subject := fmt.Sprintf("New Task Assigned: %s", task.Title)
		body := fmt.Sprintf("You have been assigned to task %q in project %q.<br>Priority: %s<br>Due: %s",
			task.Title, project.Name, task.Priority, task.DueDate.Format("2006-01-02"))
		if err := s.Mailer.Send(assignee.Email, subject, body); err != nil {
			logging.Logger.Errorf("Failed to send assignment email to %s: %v", assignee.Email, err)
		}
	}
}
