package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrResetTokenInvalid = errors.New("invalid or expired password reset token")
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `id, name, email, password_hash, phone, gender, role,
	addr_street, addr_city, addr_state, addr_pincode, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Gender, &u.Role,
		&u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.Pincode, &u.CreatedAt,
	)
	return u, err
}

func (r *Repo) Create(ctx context.Context, u User) (User, error) {
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = RoleUser
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, name, email, password_hash, phone, gender, role,
			addr_street, addr_city, addr_state, addr_pincode)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Gender, u.Role,
		u.Address.Street, u.Address.City, u.Address.State, u.Address.Pincode,
	)
	if err := row.Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET reset_token_hash=$2, reset_token_expires=$3 WHERE id=$1`,
		userID, tokenHash, expires)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ClearResetToken(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET reset_token_hash=NULL, reset_token_expires=NULL WHERE id=$1`, userID)
	return err
}

// ResetPassword consumes an unexpired token hash: sets the new password
// hash and clears the token in one statement.
func (r *Repo) ResetPassword(ctx context.Context, tokenHash, newPasswordHash string) (User, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE users SET password_hash=$2, reset_token_hash=NULL, reset_token_expires=NULL
		WHERE reset_token_hash=$1 AND reset_token_expires > now()
		RETURNING `+userCols,
		tokenHash, newPasswordHash)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrResetTokenInvalid
	}
	return u, err
}
