package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"pulse/internal/domain/comment"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

const commentColumns = `
    c.id, c.poll_id, c.user_id, u.name, u.avatar,
    c.text, c.parent_id, c.reported, c.created_at
`

func (r *CommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	c.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO comments (id, poll_id, user_id, text, parent_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, c.ID, c.QuestionID, c.UserID, c.Text, c.ParentID).Scan(&c.CreatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return comment.ErrNotFound
	}
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+commentColumns+`
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.id = $1
    `, id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, comment.ErrNotFound
		}
		return nil, err
	}

	comments := []comment.Comment{*c}
	if err := r.loadLikes(ctx, comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

func (r *CommentRepo) ToggleLike(ctx context.Context, commentID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
    `, commentID, userID)
	if err != nil {
		return false, err
	}

	liked := false
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO comment_likes (comment_id, user_id)
            VALUES ($1, $2)
            ON CONFLICT (comment_id, user_id) DO NOTHING
        `, commentID, userID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, comment.ErrNotFound
			}
			return false, err
		}
		liked = true
	}

	return liked, tx.Commit()
}

func (r *CommentRepo) ListTopLevel(ctx context.Context, pollID string) ([]comment.Comment, error) {
	return r.queryComments(ctx, `
        SELECT `+commentColumns+`
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.poll_id = $1 AND c.parent_id IS NULL
        ORDER BY c.created_at ASC
    `, pollID)
}

func (r *CommentRepo) ListByPoll(ctx context.Context, pollID string) ([]comment.Comment, error) {
	return r.queryComments(ctx, `
        SELECT `+commentColumns+`
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.poll_id = $1
        ORDER BY c.created_at ASC
    `, pollID)
}

func (r *CommentRepo) SetReported(ctx context.Context, commentID string, reported bool) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE comments SET reported = $1 WHERE id = $2
    `, reported, commentID)
	return err
}

func (r *CommentRepo) Reported(ctx context.Context) ([]comment.Comment, error) {
	return r.queryComments(ctx, `
        SELECT `+commentColumns+`
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.reported
        ORDER BY c.created_at ASC
    `)
}

func (r *CommentRepo) Delete(ctx context.Context, commentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	return err
}

func (r *CommentRepo) DeleteByPoll(ctx context.Context, pollID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE poll_id = $1`, pollID)
	return err
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	var (
		c      comment.Comment
		author comment.Commenter
		parent sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.QuestionID, &c.UserID, &author.Name, &author.Avatar,
		&c.Text, &parent, &c.Reported, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	author.ID = c.UserID
	c.User = &author
	if parent.Valid {
		p := parent.String
		c.ParentID = &p
	}
	c.Likes = []string{}
	return &c, nil
}

func (r *CommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadLikes(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *CommentRepo) loadLikes(ctx context.Context, comments []comment.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]string, len(comments))
	byID := make(map[string]*comment.Comment, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
		byID[comments[i].ID] = &comments[i]
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT comment_id, user_id
        FROM comment_likes
        WHERE comment_id = ANY($1)
        ORDER BY created_at
    `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var commentID, userID string
		if err := rows.Scan(&commentID, &userID); err != nil {
			return err
		}
		if c := byID[commentID]; c != nil {
			c.Likes = append(c.Likes, userID)
		}
	}
	return rows.Err()
}
