package accounts

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockStore struct {
	m       sync.Mutex
	users   map[string]User // by username
	clients map[string]Client
	profile *ProfileInput
}

func newMockStore() *mockStore {
	return &mockStore{users: map[string]User{}, clients: map[string]Client{}}
}

func (s *mockStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *mockStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *mockStore) CreateUserWithClient(_ context.Context, username, email, hash string) (User, Client, error) {
	s.m.Lock()
	defer s.m.Unlock()
	u := User{ID: "u-" + username, Username: username, Email: email, PasswordHash: hash}
	c := Client{ID: "c-" + username, UserID: u.ID, Email: email}
	s.users[username] = u
	s.clients[u.ID] = c
	return u, c, nil
}

func (s *mockStore) FindUserByUsername(_ context.Context, username string) (User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	u, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *mockStore) FindUserByID(_ context.Context, id string) (User, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *mockStore) FindClientByUser(_ context.Context, userID string) (Client, error) {
	s.m.Lock()
	defer s.m.Unlock()
	c, ok := s.clients[userID]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (s *mockStore) UpdateProfile(_ context.Context, _ string, in ProfileInput) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.profile = &in
	return nil
}

func validInput() RegisterInput {
	return RegisterInput{
		Username:  "jonas",
		Email:     "jonas@example.com",
		Password:  "verysecret",
		Password2: "verysecret",
	}
}

func TestRegisterCreatesUserAndClient(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "jonas", u.Username)

	// password is stored hashed, never verbatim
	assert.NotEqual(t, "verysecret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("verysecret")))

	// the client identity rides along
	_, err = store.FindClientByUser(context.Background(), u.ID)
	assert.NoError(t, err)
}

func TestRegisterValidationWritesNothing(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	in := validInput()
	in.Password2 = "different1"
	_, err := svc.Register(context.Background(), in)

	var fields Fields
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "password2")
	assert.Empty(t, store.users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "other@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Username = "petras"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "jonas", "verysecret")
	require.NoError(t, err)
	assert.Equal(t, "jonas", u.Username)

	_, err = svc.Authenticate(context.Background(), "jonas", "wrongpass1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "verysecret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateProfileValidatesFirst(t *testing.T) {
	store := newMockStore()
	svc := &Service{Store: store}

	err := svc.UpdateProfile(context.Background(), "u-1", ProfileInput{Email: "bad"})
	var fields Fields
	require.ErrorAs(t, err, &fields)
	assert.Nil(t, store.profile)

	err = svc.UpdateProfile(context.Background(), "u-1", ProfileInput{
		Email: "new@example.com", FirstName: "Jonas", LastName: "Petraitis",
	})
	require.NoError(t, err)
	require.NotNil(t, store.profile)
	assert.Equal(t, "new@example.com", store.profile.Email)
}
