package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/apperror"
	"github.com/vetcare/clinic-api/pkg/auth"
	"github.com/vetcare/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail   map[string]*model.User
	createErr error
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.User, error) { return nil, nil }
func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error               { return nil }
func (f *fakeUserRepo) Deactivate(_ context.Context, _ uuid.UUID) error             { return nil }
func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

type fakeOwnerRepo struct{}

func (fakeOwnerRepo) Create(_ context.Context, owner *model.Owner) error {
	owner.ID = uuid.New()
	return nil
}
func (fakeOwnerRepo) Get(_ context.Context, _ uuid.UUID) (*model.Owner, error) {
	return nil, sql.ErrNoRows
}
func (fakeOwnerRepo) GetByEmail(_ context.Context, _ string) (*model.Owner, error) {
	return nil, sql.ErrNoRows
}
func (fakeOwnerRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.Owner, error) {
	return nil, nil
}
func (fakeOwnerRepo) Update(_ context.Context, _ *model.Owner) error { return nil }

func newTestService(users *fakeUserRepo) *Service {
	hasher := security.NewBcryptHasher(4)
	tokens := auth.NewTokenService("test-secret", "vetcare", time.Hour)
	return NewService(users, fakeOwnerRepo{}, hasher, tokens)
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password string, active bool) *model.User {
	t.Helper()
	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	clinicID := uuid.New()
	user := &model.User{
		ClinicID:     &clinicID,
		Email:        email,
		PasswordHash: hash,
		Name:         "Dr. Reyes",
		Role:         model.RoleVeterinarian,
		IsActive:     active,
	}
	user.ID = uuid.New()
	users.byEmail[email] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*model.User{}}
	seedUser(t, users, "vet@clinic.test", "correct-horse", true)
	svc := newTestService(users)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "vet@clinic.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "vet@clinic.test", resp.User.Email)
}

// Unknown email, wrong password, and a deactivated account must all produce
// the same error, otherwise login doubles as an account oracle.
func TestLoginUniformFailure(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*model.User{}}
	seedUser(t, users, "vet@clinic.test", "correct-horse", true)
	seedUser(t, users, "gone@clinic.test", "correct-horse", false)
	svc := newTestService(users)

	cases := []model.LoginRequest{
		{Email: "nobody@clinic.test", Password: "correct-horse"},
		{Email: "vet@clinic.test", Password: "wrong"},
		{Email: "gone@clinic.test", Password: "correct-horse"},
	}

	var messages []string
	for _, req := range cases {
		_, err := svc.Login(context.Background(), &req)
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidCredential))
		messages = append(messages, err.Error())
	}
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
}

func TestRegisterCreatesOwnerAccount(t *testing.T) {
	users := &fakeUserRepo{byEmail: map[string]*model.User{}}
	svc := newTestService(users)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		ClinicID: uuid.New().String(),
		Name:     "Sam Doyle",
		Email:    "sam@example.test",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleOwner, resp.User.Role)
	require.NotNil(t, resp.User.OwnerID)
	assert.True(t, resp.User.IsActive)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserRepo{
		byEmail:   map[string]*model.User{},
		createErr: &pq.Error{Code: "23505"},
	}
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		ClinicID: uuid.New().String(),
		Name:     "Sam Doyle",
		Email:    "sam@example.test",
		Password: "long-enough-pass",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}
