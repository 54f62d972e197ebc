package usecase

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"clinic-backend/config"
	"clinic-backend/internal/delivery/dto"
	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/infrastructure/cache"
	"clinic-backend/internal/repository"
	"clinic-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenStore struct {
	mu   sync.Mutex
	keys map[string]time.Duration
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{keys: map[string]time.Duration{}}
}

func (s *fakeTokenStore) Allow(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = ttl
	return nil
}

func (s *fakeTokenStore) IsAllowed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *fakeTokenStore) RevokeMatching(ctx context.Context, pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.keys {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.keys, key)
		}
	}
	return nil
}

func (s *fakeTokenStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

func newAuthUsecase(env *testEnv, store cache.TokenStore) (AuthUsecase, *jwt.JWTService) {
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	return NewAuthUsecase(
		env.db,
		env.log,
		repository.NewUserRepository(),
		repository.NewRoleRepository(),
		repository.NewDoctorProfileRepository(),
		repository.NewPatientProfileRepository(),
		env.auditService,
		jwtService,
		store,
	), jwtService
}

func registerPatient(t *testing.T, uc AuthUsecase, email string) *dto.UserResponse {
	t.Helper()

	user, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:       email,
		Password:    "secret123",
		FullName:    "Jane Patient",
		DateOfBirth: "1990-04-12",
		Gender:      entity.GenderFemale,
	})
	require.NoError(t, err)
	return user
}

func TestAuthUsecase_RegisterPatient(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAuthUsecase(env, newFakeTokenStore())

	user := registerPatient(t, uc, "Jane@Clinic.test")
	assert.Equal(t, "jane@clinic.test", user.Email)
	assert.Equal(t, []string{entity.RolePatient}, user.Roles)
	require.NotNil(t, user.PatientProfile)
	require.NotNil(t, user.PatientProfile.DateOfBirth)
	assert.Equal(t, "1990-04-12", *user.PatientProfile.DateOfBirth)
	assert.Equal(t, int64(1), env.count(t, &entity.AuditLog{}, "action = ?", entity.AuditActionUserRegister))

	_, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:    "jane@clinic.test",
		Password: "secret123",
		FullName: "Someone Else",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:       "other@clinic.test",
		Password:    "secret123",
		FullName:    "Other",
		DateOfBirth: "12/04/1990",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestAuthUsecase_RegisterDoctor(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAuthUsecase(env, newFakeTokenStore())

	user, err := uc.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Email:          "house@clinic.test",
		Password:       "secret123",
		FullName:       "Dr House",
		LicenseNumber:  " MD-001 ",
		Specialization: "Diagnostics",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RoleDoctor}, user.Roles)
	require.NotNil(t, user.DoctorProfile)
	assert.Equal(t, "MD-001", user.DoctorProfile.LicenseNumber)
}

func TestAuthUsecase_LoginRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	store := newFakeTokenStore()
	uc, jwtService := newAuthUsecase(env, store)
	ctx := context.Background()

	user := registerPatient(t, uc, "jane@clinic.test")

	_, err := uc.Login(ctx, &dto.LoginRequest{Email: "jane@clinic.test", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Login(ctx, &dto.LoginRequest{Email: "nobody@clinic.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := uc.Login(ctx, &dto.LoginRequest{Email: "JANE@clinic.test", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), tokens.ExpiresIn)
	assert.Equal(t, 2, store.size())

	// an access token cannot refresh
	_, err = uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	rotated, err := uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	claims, err := jwtService.ValidateToken(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.RolePatient}, claims.Roles)

	caller := &entity.Caller{UserID: user.ID, Roles: claims.Roles, TokenID: claims.TokenID}
	require.NoError(t, uc.Logout(ctx, caller, rotated.RefreshToken))

	allowed, err := store.IsAllowed(ctx, cache.AccessTokenKey(user.ID, claims.TokenID))
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = uc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	assert.ErrorIs(t, uc.Logout(ctx, nil, ""), ErrUnauthenticated)
}

func TestAuthUsecase_InactiveUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newAuthUsecase(env, newFakeTokenStore())

	user := registerPatient(t, uc, "jane@clinic.test")
	require.NoError(t, env.db.Model(&entity.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "jane@clinic.test", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthUsecase_GetCurrentUserAndRevokeAll(t *testing.T) {
	env := newTestEnv(t)
	store := newFakeTokenStore()
	uc, _ := newAuthUsecase(env, store)
	ctx := context.Background()

	user := registerPatient(t, uc, "jane@clinic.test")

	current, err := uc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, current.Email)
	assert.NotNil(t, current.PatientProfile)

	_, err = uc.GetCurrentUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	for i := 0; i < 2; i++ {
		_, err := uc.Login(ctx, &dto.LoginRequest{Email: "jane@clinic.test", Password: "secret123"})
		require.NoError(t, err)
	}
	require.Equal(t, 4, store.size())

	require.NoError(t, uc.RevokeAllUserTokens(ctx, user.ID))
	assert.Equal(t, 0, store.size())
}
