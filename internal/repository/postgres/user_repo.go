package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"pulse/internal/domain/user"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `
    id, name, username, email, password_hash, avatar, bio, role,
    interests, country, city, banned, created_at
`

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	u.ID = uuid.NewString()
	interests, err := json.Marshal(u.Interests)
	if err != nil {
		return err
	}
	var country, city *string
	if u.Location != nil {
		country, city = &u.Location.Country, &u.Location.City
	}
	err = r.db.QueryRowContext(ctx, `
        INSERT INTO users (id, name, username, email, password_hash, avatar, bio, role, interests, country, city)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at
    `, u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Avatar, u.Bio, u.Role, interests, country, city).
		Scan(&u.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+userColumns+`
        FROM users WHERE `+column+` = $1
    `, value)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+userColumns+`
        FROM users ORDER BY created_at
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

func (r *UserRepo) SetInterests(ctx context.Context, id string, interests []string) error {
	data, err := json.Marshal(interests)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
        UPDATE users SET interests = $1 WHERE id = $2
    `, data, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetBanned(ctx context.Context, id string, banned bool) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE users SET banned = $1 WHERE id = $2
    `, banned, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        DELETE FROM user_follows WHERE target_id = $1 AND follower_id = $2
    `, targetID, followerID)
	if err != nil {
		return false, err
	}

	following := false
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO user_follows (target_id, follower_id)
            VALUES ($1, $2)
            ON CONFLICT (target_id, follower_id) DO NOTHING
        `, targetID, followerID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return false, user.ErrNotFound
			}
			return false, err
		}
		following = true
	}

	return following, tx.Commit()
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u             user.User
		interests     []byte
		country, city sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar,
		&u.Bio, &u.Role, &interests, &country, &city, &u.Banned, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(interests, &u.Interests); err != nil {
		return nil, err
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	if country.Valid || city.Valid {
		u.Location = &user.Location{Country: country.String, City: city.String}
	}
	return &u, nil
}
