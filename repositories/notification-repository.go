package repositories

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

// NotificationRepo stores user notifications in Cassandra, partitioned
// by email and clustered newest first.
type NotificationRepo struct {
	session *gocql.Session
}

func NewNotificationRepo(host string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %v", err)
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %v", err)
	}
	session.Close()

	cluster.Keyspace = "notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notifications keyspace: %v", err)
	}

	logging.Logger.Info("Connected to Cassandra notifications keyspace.")
	return &NotificationRepo{session: session}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	logging.Logger.Info("Cassandra session closed.")
}

func (nr *NotificationRepo) CreateTable() error {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			email TEXT,
			user_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((email), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %v", err)
	}
	return nil
}

func (nr *NotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, email, user_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.Email, notification.UserID,
		notification.Message, notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		return fmt.Errorf("failed to insert notification: %v", err)
	}
	return nil
}

func (nr *NotificationRepo) GetNotificationsByEmail(email string) ([]models.Notification, error) {
	query := `SELECT id, user_id, email, message, created_at, is_read
			  FROM notifications WHERE email = ?`

	iter := nr.session.Query(query, email).Iter()
	notifications := []models.Notification{}
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.UserID, &notification.Email,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}

	return notifications, nil
}

func (nr *NotificationRepo) MarkNotificationAsRead(email, notificationID string, createdAt time.Time) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %v", err)
	}

	query := `UPDATE notifications SET is_read = true WHERE email = ? AND id = ? AND created_at = ?`
	if err := nr.session.Query(query, email, uuid, createdAt).Exec(); err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	return nil
}

// MarkAllAsRead walks the user's partition and flags each row. Cassandra
// updates need the full primary key, so this is one write per row.
func (nr *NotificationRepo) MarkAllAsRead(email string) error {
	iter := nr.session.Query(
		`SELECT id, created_at, is_read FROM notifications WHERE email = ?`, email).Iter()

	var id gocql.UUID
	var createdAt time.Time
	var isRead bool
	for iter.Scan(&id, &createdAt, &isRead) {
		if isRead {
			continue
		}
		if err := nr.session.Query(
			`UPDATE notifications SET is_read = true WHERE email = ? AND id = ? AND created_at = ?`,
			email, id, createdAt,
		).Exec(); err != nil {
			_ = iter.Close()
			return fmt.Errorf("failed to mark notification %s as read: %v", id, err)
		}
	}

	if err := iter.Close(); err != nil {
		return fmt.Errorf("failed to iterate notifications: %v", err)
	}
	return nil
}

func (nr *NotificationRepo) DeleteNotification(email, notificationID string, createdAt time.Time) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification ID format: %v", err)
	}

	query := `DELETE FROM notifications WHERE email = ? AND id = ? AND created_at = ?`
	if err := nr.session.Query(query, email, uuid, createdAt).Exec(); err != nil {
		return fmt.Errorf("failed to delete notification: %v", err)
	}
	return nil
}

// DeleteAll drops the user's whole partition.
func (nr *NotificationRepo) DeleteAll(email string) error {
	if err := nr.session.Query(
		`DELETE FROM notifications WHERE email = ?`, email).Exec(); err != nil {
		return fmt.Errorf("failed to clear notifications: %v", err)
	}
	return nil
}
