package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

// deadlineWindowDays is how far ahead the checker looks for approaching
// due dates.
const deadlineWindowDays = 3

// DeadlineService periodically scans projects and tasks for due dates
// inside the notification window and notifies members and assignees.
type DeadlineService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	UsersCollection    *mongo.Collection
	Notifications      *NotificationService
	Mailer             Mailer
}

func NewDeadlineService(projects, tasks, users *mongo.Collection, notifications *NotificationService, mailer Mailer) *DeadlineService {
	return &DeadlineService{
		ProjectsCollection: projects,
		TasksCollection:    tasks,
		UsersCollection:    users,
		Notifications:      notifications,
		Mailer:             mailer,
	}
}

// WithinNotificationWindow reports whether due is in the future and no
// more than deadlineWindowDays away from now.
func WithinNotificationWindow(due, now time.Time) bool {
	diff := due.Sub(now)
	return diff > 0 && diff <= deadlineWindowDays*24*time.Hour
}

// Run loops until the context is cancelled, checking deadlines once per
// interval.
func (s *DeadlineService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckDeadlines(ctx)
		}
	}
}

// CheckDeadlines performs one scan. All notification failures are logged
// and swallowed.
func (s *DeadlineService) CheckDeadlines(ctx context.Context) {
	now := time.Now()
	window := bson.M{"$gt": now, "$lte": now.Add(deadlineWindowDays * 24 * time.Hour)}

	s.checkProjects(ctx, window)
	s.checkTasks(ctx, window)
}

func (s *DeadlineService) checkProjects(ctx context.Context, window bson.M) {
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{
		"dueDate": window,
		"status":  bson.M{"$ne": models.ProjectCompleted},
	})
	if err != nil {
		logging.Logger.Errorf("Deadline check: failed to fetch projects: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		logging.Logger.Errorf("Deadline check: failed to decode projects: %v", err)
		return
	}

	for _, project := range projects {
		recipients := append([]interface{}{project.Owner}, toAny(project.Members)...)
		message := fmt.Sprintf("Project %q is due on %s.", project.Name, project.DueDate.Format("2006-01-02"))
		s.notify(ctx, recipients, message)
	}
}

func (s *DeadlineService) checkTasks(ctx context.Context, window bson.M) {
	cursor, err := s.TasksCollection.Find(ctx, bson.M{
		"dueDate": window,
		"status":  bson.M{"$ne": models.StatusDone},
	})
	if err != nil {
		logging.Logger.Errorf("Deadline check: failed to fetch tasks: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		logging.Logger.Errorf("Deadline check: failed to decode tasks: %v", err)
		return
	}

	for _, task := range tasks {
		message := fmt.Sprintf("Task %q is due on %s.", task.Title, task.DueDate.Format("2006-01-02"))
		s.notify(ctx, toAny(task.AssignedTo), message)
	}
}

func (s *DeadlineService) notify(ctx context.Context, userIDs []interface{}, message string) {
	if len(userIDs) == 0 {
		return
	}

	cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		logging.Logger.Errorf("Deadline check: failed to fetch recipients: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		logging.Logger.Errorf("Deadline check: failed to decode recipients: %v", err)
		return
	}

	for _, user := range users {
		if err := s.Notifications.CreateNotification(user.ID.Hex(), user.Email, message); err != nil {
			logging.Logger.Errorf("Deadline check: failed to notify %s: %v", user.Email, err)
		}
		if err := s.Mailer.Send(user.Email, "Deadline Approaching", message); err != nil {
			logging.Logger.Errorf("Deadline check: failed to email %s: %v", user.Email, err)
		}
	}
}

func toAny[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
