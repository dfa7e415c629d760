package users

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/server/internal/auth"
)

type stubRepo struct {
	createFn     func(params CreateParams) (*User, error)
	getByEmailFn func(email string) (*User, error)
	getByIDFn    func(id string) (*User, error)
}

func (s stubRepo) Create(_ context.Context, params CreateParams) (*User, error) {
	return s.createFn(params)
}

func (s stubRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	return s.getByEmailFn(email)
}

func (s stubRepo) GetByID(_ context.Context, id string) (*User, error) {
	return s.getByIDFn(id)
}

func TestSignupHashesPasswordAndLowercasesEmail(t *testing.T) {
	var got CreateParams
	service := NewService(stubRepo{
		createFn: func(params CreateParams) (*User, error) {
			got = params
			return &User{ID: "u-1", Email: params.Email, Role: params.Role}, nil
		},
	}, zerolog.Nop())

	user, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, RoleUser, user.Role)
	require.NotEqual(t, "hunter2hunter2", got.PasswordHash)
	require.True(t, auth.CheckPassword(got.PasswordHash, "hunter2hunter2"))
}

func TestSignupRejectsShortPassword(t *testing.T) {
	service := NewService(stubRepo{}, zerolog.Nop())

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})
	var ierr InputError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, "password", ierr.Field)
}

func TestSignupRejectsBadEmail(t *testing.T) {
	service := NewService(stubRepo{}, zerolog.Nop())

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "not-an-email",
		Password: "hunter2hunter2",
	})
	var ierr InputError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, "email", ierr.Field)
}

func TestSignupSurfacesEmailTaken(t *testing.T) {
	service := NewService(stubRepo{
		createFn: func(CreateParams) (*User, error) { return nil, ErrEmailTaken },
	}, zerolog.Nop())

	_, err := service.Signup(context.Background(), SignupInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateSuccess(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	service := NewService(stubRepo{
		getByEmailFn: func(email string) (*User, error) {
			require.Equal(t, "ada@example.com", email)
			return &User{ID: "u-1", Email: email, PasswordHash: hash}, nil
		},
	}, zerolog.Nop())

	user, err := service.Authenticate(context.Background(), "Ada@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	service := NewService(stubRepo{
		getByEmailFn: func(string) (*User, error) {
			return &User{ID: "u-1", PasswordHash: hash}, nil
		},
	}, zerolog.Nop())

	_, err = service.Authenticate(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	service := NewService(stubRepo{
		getByEmailFn: func(string) (*User, error) { return nil, ErrNotFound },
	}, zerolog.Nop())

	_, err := service.Authenticate(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
