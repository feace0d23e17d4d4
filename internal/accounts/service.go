package accounts

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken  = errors.New("accounts: username already taken")
	ErrEmailTaken     = errors.New("accounts: email already taken")
	ErrBadCredentials = errors.New("accounts: bad credentials")
)

// Store is what the service needs from persistence; *Repo satisfies it.
type Store interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUserWithClient(ctx context.Context, username, email, passwordHash string) (User, Client, error)
	FindUserByUsername(ctx context.Context, username string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
	FindClientByUser(ctx context.Context, userID string) (Client, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) error
}

type Service struct {
	Store Store
}

// Register validates the input, checks uniqueness and creates the user
// plus its client row. Validation failures come back as Fields; nothing
// is written in that case.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if f := ValidateRegistration(in); f != nil {
		return User{}, f
	}

	taken, err := s.Store.UsernameExists(ctx, in.Username)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, in.Username)
	}
	taken, err = s.Store.EmailExists(ctx, in.Email)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u, _, err := s.Store.CreateUserWithClient(ctx, in.Username, in.Email, string(hash))
	return u, err
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.Store.FindUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (User, Client, error) {
	u, err := s.Store.FindUserByID(ctx, userID)
	if err != nil {
		return User{}, Client{}, err
	}
	c, err := s.Store.FindClientByUser(ctx, userID)
	if err != nil {
		return User{}, Client{}, err
	}
	return u, c, nil
}

// UpdateProfile re-validates and only then mutates.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) error {
	if f := ValidateProfile(in); f != nil {
		return f
	}
	return s.Store.UpdateProfile(ctx, userID, in)
}
