package services

import (
	"fmt"
	"time"

	"projecthub/backend/models"
	"projecthub/backend/repositories"
)

type NotificationService struct {
	repo *repositories.NotificationRepo
}

func NewNotificationService(repo *repositories.NotificationRepo) *NotificationService {
	return &NotificationService{repo: repo}
}

func (ns *NotificationService) CreateNotification(userID, email, message string) error {
	if userID == "" || email == "" || message == "" {
		return fmt.Errorf("%w: userID, email, and message are required", ErrValidation)
	}
	notification := models.Notification{
		UserID:    userID,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
		IsRead:    false,
	}
	return ns.repo.CreateNotification(&notification)
}

func (ns *NotificationService) GetNotifications(email string) ([]models.Notification, error) {
	return ns.repo.GetNotificationsByEmail(email)
}

func (ns *NotificationService) MarkAsRead(email, notificationID string, createdAt string) error {
	if email == "" || notificationID == "" || createdAt == "" {
		return fmt.Errorf("%w: notificationId and createdAt are required", ErrValidation)
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("%w: invalid createdAt format", ErrValidation)
	}
	return ns.repo.MarkNotificationAsRead(email, notificationID, parsed)
}

func (ns *NotificationService) MarkAllAsRead(email string) error {
	return ns.repo.MarkAllAsRead(email)
}

func (ns *NotificationService) DeleteNotification(email, notificationID, createdAt string) error {
	if email == "" || notificationID == "" || createdAt == "" {
		return fmt.Errorf("%w: notificationId and createdAt are required", ErrValidation)
	}
	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("%w: invalid createdAt format", ErrValidation)
	}
	return ns.repo.DeleteNotification(email, notificationID, parsed)
}

func (ns *NotificationService) ClearAll(email string) error {
	return ns.repo.DeleteAll(email)
}
