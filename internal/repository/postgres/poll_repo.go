package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"pulse/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

const pollColumns = `
    p.id, p.author_id, u.name, u.username, u.avatar,
    p.content, p.category, p.yes_votes, p.no_votes, p.comments_count,
    p.trending_score, p.sponsored, p.reported, p.country, p.city,
    p.created_at, p.updated_at
`

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll) error {
	p.ID = uuid.NewString()
	query := `
        INSERT INTO polls (id, author_id, content, category, country, city)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at
    `
	var country, city *string
	if p.Location != nil {
		country, city = &p.Location.Country, &p.Location.City
	}
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.AuthorID, p.Content, p.Category, country, city,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PollRepo) GetByID(ctx context.Context, id string) (*poll.Poll, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        WHERE p.id = $1
    `, id)

	p, err := scanPoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, poll.ErrNotFound
		}
		return nil, err
	}

	polls := []poll.Poll{*p}
	if err := r.loadEngagement(ctx, polls); err != nil {
		return nil, err
	}
	return &polls[0], nil
}

// AddVote inserts the voter row and bumps the matching counter in one
// transaction; the (poll_id, user_id) primary key turns a duplicate vote
// into a unique violation.
func (r *PollRepo) AddVote(ctx context.Context, pollID, userID, choice string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO poll_voters (poll_id, user_id, vote)
        VALUES ($1, $2, $3)
    `, pollID, userID, choice)
	if err != nil {
		if isUniqueViolation(err) {
			return poll.ErrAlreadyVoted
		}
		if isForeignKeyViolation(err) {
			return poll.ErrNotFound
		}
		return err
	}

	counter := "no_votes"
	if choice == poll.ChoiceYes {
		counter = "yes_votes"
	}
	res, err := tx.ExecContext(ctx, `
        UPDATE polls SET `+counter+` = `+counter+` + 1, updated_at = now()
        WHERE id = $1
    `, pollID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return poll.ErrNotFound
	}

	return tx.Commit()
}

func (r *PollRepo) ToggleLike(ctx context.Context, pollID, userID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        DELETE FROM poll_likes WHERE poll_id = $1 AND user_id = $2
    `, pollID, userID)
	if err != nil {
		return false, err
	}

	liked := false
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO poll_likes (poll_id, user_id)
            VALUES ($1, $2)
            ON CONFLICT (poll_id, user_id) DO NOTHING
        `, pollID, userID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, poll.ErrNotFound
			}
			return false, err
		}
		liked = true
	}

	return liked, tx.Commit()
}

func (r *PollRepo) UpdateTrendingScore(ctx context.Context, pollID string, score float64) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE polls SET trending_score = $1, updated_at = now() WHERE id = $2
    `, score, pollID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return poll.ErrNotFound
	}
	return nil
}

func (r *PollRepo) IncrementComments(ctx context.Context, pollID string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE polls SET comments_count = comments_count + 1, updated_at = now()
        WHERE id = $1
    `, pollID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return poll.ErrNotFound
	}
	return nil
}

func (r *PollRepo) SetReported(ctx context.Context, pollID string, reported bool) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE polls SET reported = $1, updated_at = now() WHERE id = $2
    `, reported, pollID)
	return err
}

func (r *PollRepo) Delete(ctx context.Context, pollID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	return err
}

func (r *PollRepo) Trending(ctx context.Context, limit int) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        ORDER BY p.trending_score DESC, p.created_at DESC
        LIMIT $1
    `, limit)
}

func (r *PollRepo) Latest(ctx context.Context, limit int) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC
        LIMIT $1
    `, limit)
}

func (r *PollRepo) All(ctx context.Context) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        ORDER BY p.created_at DESC
    `)
}

func (r *PollRepo) ByLocation(ctx context.Context, country, city string, limit int) ([]poll.Poll, error) {
	if city != "" {
		return r.queryPolls(ctx, `
            SELECT `+pollColumns+`
            FROM polls p
            JOIN users u ON u.id = p.author_id
            WHERE p.country = $1 AND p.city = $2
            ORDER BY p.trending_score DESC
            LIMIT $3
        `, country, city, limit)
	}
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        WHERE p.country = $1
        ORDER BY p.trending_score DESC
        LIMIT $2
    `, country, limit)
}

func (r *PollRepo) Sponsored(ctx context.Context, limit int) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        WHERE p.sponsored
        ORDER BY p.created_at DESC
        LIMIT $1
    `, limit)
}

func (r *PollRepo) Explore(ctx context.Context, limit int) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        LEFT JOIN poll_likes pl ON pl.poll_id = p.id
        GROUP BY p.id, u.name, u.username, u.avatar
        ORDER BY COUNT(pl.user_id) DESC, p.created_at DESC
        LIMIT $1
    `, limit)
}

func (r *PollRepo) Reported(ctx context.Context) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        WHERE p.reported
        ORDER BY p.updated_at DESC
    `)
}

func (r *PollRepo) SearchContent(ctx context.Context, query string, limit int) ([]poll.Poll, error) {
	return r.queryPolls(ctx, `
        SELECT `+pollColumns+`
        FROM polls p
        JOIN users u ON u.id = p.author_id
        WHERE p.content ILIKE '%' || $1 || '%'
        ORDER BY p.created_at DESC
        LIMIT $2
    `, query, limit)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*poll.Poll, error) {
	var (
		p             poll.Poll
		author        poll.Author
		country, city sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.AuthorID, &author.Name, &author.Username, &author.Avatar,
		&p.Content, &p.Category, &p.YesVotes, &p.NoVotes, &p.CommentsCount,
		&p.TrendingScore, &p.Sponsored, &p.Reported, &country, &city,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	author.ID = p.AuthorID
	p.Author = &author
	if country.Valid || city.Valid {
		p.Location = &poll.Location{Country: country.String, City: city.String}
	}
	p.Voters = []poll.Voter{}
	p.Likes = []string{}
	return &p, nil
}

func (r *PollRepo) queryPolls(ctx context.Context, query string, args ...any) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEngagement(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// loadEngagement fills the voters and likes sets for the given polls with
// one query per table.
func (r *PollRepo) loadEngagement(ctx context.Context, polls []poll.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]string, len(polls))
	byID := make(map[string]*poll.Poll, len(polls))
	for i := range polls {
		ids[i] = polls[i].ID
		byID[polls[i].ID] = &polls[i]
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT poll_id, user_id, vote
        FROM poll_voters
        WHERE poll_id = ANY($1)
        ORDER BY created_at
    `, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pollID string
		var v poll.Voter
		if err := rows.Scan(&pollID, &v.UserID, &v.Vote); err != nil {
			return err
		}
		if p := byID[pollID]; p != nil {
			p.Voters = append(p.Voters, v)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	likeRows, err := r.db.QueryContext(ctx, `
        SELECT poll_id, user_id
        FROM poll_likes
        WHERE poll_id = ANY($1)
        ORDER BY created_at
    `, ids)
	if err != nil {
		return err
	}
	defer likeRows.Close()
	for likeRows.Next() {
		var pollID, userID string
		if err := likeRows.Scan(&pollID, &userID); err != nil {
			return err
		}
		if p := byID[pollID]; p != nil {
			p.Likes = append(p.Likes, userID)
		}
	}
	return likeRows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
