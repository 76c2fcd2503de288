package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/expert-calendar-api/internal/models"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

type authRepoStub struct {
	expert      *models.Expert
	findErr     error
	lastLoginID string
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.Expert, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.expert == nil || s.expert.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.expert, nil
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	if s.expert == nil || s.expert.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.expert, nil
}

func (s *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	s.lastLoginID = id
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "expert-calendar"}
}

func activeExpert(t *testing.T) *models.Expert {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Expert{
		ID:           "expert-1",
		Email:        "dana@example.com",
		PasswordHash: string(hash),
		Active:       true,
	}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &authRepoStub{expert: activeExpert(t)}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "expert-1", repo.lastLoginID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "expert-1", claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &authRepoStub{expert: activeExpert(t)}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	repo := &authRepoStub{}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	require.Error(t, err)
	// Same code as a wrong password so the response does not leak which
	// accounts exist.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	expert := activeExpert(t)
	expert.Active = false
	repo := &authRepoStub{expert: expert}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "s3cret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc := NewAuthService(&authRepoStub{}, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "s3cret"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	repo := &authRepoStub{expert: activeExpert(t)}
	issuer := NewAuthService(repo, nil, nil, testAuthConfig())
	resp, err := issuer.Login(context.Background(), models.LoginRequest{Email: "dana@example.com", Password: "s3cret"})
	require.NoError(t, err)

	verifier := NewAuthService(repo, nil, nil, AuthConfig{Secret: "other-secret", Expiration: time.Hour})
	_, err = verifier.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
