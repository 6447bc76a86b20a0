package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/core"
	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

type NotificationRepository struct {
	db    *sql.DB
	clock core.Clock
}

const notificationColumns = ` id, user_id, type, message, metadata, is_read, created `

func NewNotificationRepository(db *sql.DB, clock core.Clock) *NotificationRepository {
	return &NotificationRepository{db: db, clock: clock}
}

func (r *NotificationRepository) Save(n *domain.Notification) (int64, error) {
	if n.Created.IsZero() {
		n.Created = r.clock.Now()
	}
	vals := []interface{}{n.UserID, n.Type, n.Message, n.Metadata, n.Read, formatTimeInDatabase(n.Created)}
	pps := make([]string, 0, len(vals))
	for i := range vals {
		pps = append(pps, Placeholder(i+1))
	}
	base := `INSERT INTO notification (
		user_id, type, message, metadata, is_read, created
	) VALUES (` + strings.Join(pps, ", ") + `)`

	if SupportsReturning() {
		err := r.db.QueryRow(base+" RETURNING id", vals...).Scan(&n.ID)
		return n.ID, err
	}
	res, err := r.db.Exec(base, vals...)
	if err != nil {
		return 0, err
	}
	n.ID, err = res.LastInsertId()
	return n.ID, err
}

func (r *NotificationRepository) FindByUserID(userID int64, limit int) (*[]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT ` + notificationColumns + `
		FROM notification WHERE user_id = ` + Placeholder(1) + `
		ORDER BY id DESC LIMIT ` + fmt.Sprintf("%d", limit)
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Metadata, &n.Read, &n.Created); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return &notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(id int64) error {
	query := `UPDATE notification SET is_read = ` + Placeholder(1) + ` WHERE id = ` + Placeholder(2)
	_, err := r.db.Exec(query, true, id)
	return err
}
