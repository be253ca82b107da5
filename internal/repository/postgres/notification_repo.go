package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"pulse/internal/domain/notification"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	n.ID = uuid.NewString()
	var question, comm *string
	if n.QuestionID != "" {
		question = &n.QuestionID
	}
	if n.CommentID != "" {
		comm = &n.CommentID
	}
	return r.db.QueryRowContext(ctx, `
        INSERT INTO notifications (id, user_id, from_user_id, type, question_id, comment_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `, n.ID, n.UserID, n.FromUserID, n.Type, question, comm).Scan(&n.CreatedAt)
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT n.id, n.user_id, n.from_user_id, u.name, u.avatar,
               n.type, n.question_id, n.comment_id, n.read, n.created_at
        FROM notifications n
        LEFT JOIN users u ON u.id = n.from_user_id
        WHERE n.user_id = $1
        ORDER BY n.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []notification.Notification
	for rows.Next() {
		var (
			n                     notification.Notification
			fromID, name, avatar  sql.NullString
			questionID, commentID sql.NullString
		)
		err := rows.Scan(
			&n.ID, &n.UserID, &fromID, &name, &avatar,
			&n.Type, &questionID, &commentID, &n.Read, &n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		n.FromUserID = fromID.String
		if fromID.Valid {
			n.FromUser = &notification.Sender{ID: fromID.String, Name: name.String, Avatar: avatar.String}
		}
		n.QuestionID = questionID.String
		n.CommentID = commentID.String
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	return err
}
