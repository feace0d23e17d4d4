package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("accounts: not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username=$1`, username).Scan(&n)
	return n > 0, err
}

func (r *Repo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email=$1`, email).Scan(&n)
	return n > 0, err
}

// CreateUserWithClient inserts the user and its client row together, so
// a registered user always has a client identity.
func (r *Repo) CreateUserWithClient(ctx context.Context, username, email, passwordHash string) (User, Client, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, Client{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u := User{ID: uuid.NewString(), Username: username, Email: email, PasswordHash: passwordHash}
	err = tx.QueryRow(ctx, `
		INSERT INTO users(id, username, email, password_hash)
		VALUES ($1, $2, $3, $4) RETURNING created_at`,
		u.ID, u.Username, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if err != nil {
		return User{}, Client{}, fmt.Errorf("insert user: %w", err)
	}

	c := Client{ID: uuid.NewString(), UserID: u.ID, Email: email}
	err = tx.QueryRow(ctx, `
		INSERT INTO clients(id, user_id, first_name, last_name, email, phone_number, address)
		VALUES ($1, $2, '', '', $3, '', '') RETURNING created_at`,
		c.ID, c.UserID, c.Email).Scan(&c.CreatedAt)
	if err != nil {
		return User{}, Client{}, fmt.Errorf("insert client: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, Client{}, err
	}
	return u, c, nil
}

func (r *Repo) FindUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at
	                           FROM users WHERE username=$1`, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at
	                           FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repo) FindClientByUser(ctx context.Context, userID string) (Client, error) {
	var c Client
	err := r.DB.QueryRow(ctx, `SELECT id, user_id, first_name, last_name, email, phone_number, address, created_at
	                           FROM clients WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.Address, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, ErrNotFound
	}
	return c, err
}

// UpdateProfile writes the user's email and the client contact fields in
// one transaction.
func (r *Repo) UpdateProfile(ctx context.Context, userID string, in ProfileInput) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE users SET email=$2 WHERE id=$1`, userID, in.Email); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE clients SET first_name=$2, last_name=$3, email=$4, phone_number=$5, address=$6
		WHERE user_id=$1`,
		userID, in.FirstName, in.LastName, in.Email, in.PhoneNumber, in.Address); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return tx.Commit(ctx)
}
