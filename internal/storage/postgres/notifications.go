package postgres

import (
	"context"

	"github.com/adanyl0v/taskboard/internal/models"
	"github.com/adanyl0v/taskboard/internal/storage"
)

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	const insertNotificationQuery = `
INSERT INTO notifications (id,
                           user_id,
                           message,
                           type,
                           read,
                           related_id,
                           source,
                           created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := db.pool.Exec(
		ctx,
		insertNotificationQuery,
		n.ID,
		n.UserID,
		n.Message,
		n.Category,
		n.Read,
		n.RelatedID,
		n.Source,
		n.CreatedAt,
	)
	return translate(err)
}

func (db *DB) ListNotifications(ctx context.Context, filter storage.NotificationFilter) ([]*models.Notification, error) {
	// A NULL source matches every source; a zero limit means no limit.
	const selectNotificationsQuery = `
SELECT id,
       message,
       type,
       read,
       related_id,
       source,
       created_at
FROM notifications
WHERE user_id = $1 AND
      ($2::text IS NULL OR source = $2)
ORDER BY created_at DESC
LIMIT NULLIF($3, 0)
`
	var source *string
	if filter.Source != nil {
		s := string(*filter.Source)
		source = &s
	}

	rows, err := db.pool.Query(ctx, selectNotificationsQuery, filter.UserID, source, filter.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Notification
	for rows.Next() {
		n := &models.Notification{UserID: filter.UserID}
		err = rows.Scan(
			&n.ID,
			&n.Message,
			&n.Category,
			&n.Read,
			&n.RelatedID,
			&n.Source,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (db *DB) MarkNotificationRead(ctx context.Context, id, userID string) error {
	const markNotificationReadQuery = `
UPDATE notifications
SET read = TRUE
WHERE id = $1 AND user_id = $2
`
	tag, err := db.pool.Exec(ctx, markNotificationReadQuery, id, userID)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}

func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	const markAllNotificationsReadQuery = `
UPDATE notifications
SET read = TRUE
WHERE user_id = $1 AND read = FALSE
`
	tag, err := db.pool.Exec(ctx, markAllNotificationsReadQuery, userID)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (db *DB) DeleteNotification(ctx context.Context, id, userID string) error {
	const deleteNotificationQuery = `
DELETE FROM notifications
WHERE id = $1 AND user_id = $2
`
	tag, err := db.pool.Exec(ctx, deleteNotificationQuery, id, userID)
	if err != nil {
		return translate(err)
	}
	return expectAffected(tag)
}
