package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/auth/password"
	"github.com/upeonet/mtandao/internal/auth/repository"
	"github.com/upeonet/mtandao/internal/config"
	securityeventdomain "github.com/upeonet/mtandao/internal/securityevent/domain"
	securityeventservice "github.com/upeonet/mtandao/internal/securityevent/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLimiter struct {
	threshold int
	failures  map[string]int64
}

func newFakeLimiter(threshold int) *fakeLimiter {
	return &fakeLimiter{threshold: threshold, failures: map[string]int64{}}
}

func (l *fakeLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	_ = ctx
	return l.failures[email] >= int64(l.threshold), nil
}

func (l *fakeLimiter) RecordFailure(ctx context.Context, email string) (int64, error) {
	_ = ctx
	l.failures[email]++
	return l.failures[email], nil
}

func (l *fakeLimiter) Reset(ctx context.Context, email string) error {
	_ = ctx
	delete(l.failures, email)
	return nil
}

func (l *fakeLimiter) Threshold() int {
	return l.threshold
}

func setupAuthService(t *testing.T, dsn string) (domain.Service, *gorm.DB, *fakeLimiter) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&securityeventdomain.Event{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	logger := zap.NewNop()

	userRepo, sessionRepo := repository.New(db)

	events := securityeventservice.New(securityeventservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
	})

	policy := password.NewPolicy(config.PasswordConfig{
		MinLength:    8,
		RequireUpper: true,
		RequireLower: true,
		RequireDigit: true,
	})

	limiter := newFakeLimiter(3)
	svc := New(Params{
		Log:         logger,
		Repo:        userRepo,
		SessionRepo: sessionRepo,
		GenID:       node,
		Policy:      policy,
		Limiter:     limiter,
		Events:      events,
	})

	return svc, db, limiter
}

func TestCreateUser(t *testing.T) {
	svc, _, _ := setupAuthService(t, "file:auth_create?mode=memory&cache=shared")
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Name:     "Jane Wanjiku",
		Email:    "jane@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotNil(t, user.PasswordHash)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "jane@example.com",
		Password: "Str0ngPass",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "weak@example.com",
		Password: "weak",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "bogus@example.com",
		Password: "Str0ngPass",
		Role:     domain.Role("superuser"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, db, _ := setupAuthService(t, "file:auth_login?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "peter@example.com",
		Password: "Str0ngPass",
		Role:     domain.RoleSupport,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "Peter@Example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)
	assert.Equal(t, domain.RoleSupport, result.User.Role)

	// The raw token is never stored, only its hash.
	var sessions []domain.Session
	require.NoError(t, db.Find(&sessions).Error)
	require.Len(t, sessions, 1)
	assert.NotEqual(t, result.RawToken, sessions[0].SessionTokenHash)

	user, session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, "peter@example.com", user.Email)
	assert.Equal(t, sessions[0].ID, session.ID)

	// A successful login is recorded as a security event.
	var events []securityeventdomain.Event
	require.NoError(t, db.Where("kind = ?", securityeventdomain.KindLogin).Find(&events).Error)
	assert.Len(t, events, 1)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, db, _ := setupAuthService(t, "file:auth_wrongpw?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "grace@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "grace@example.com",
		Password: "WrongPass1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown accounts fail the same way as wrong passwords.
	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Str0ngPass",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	var events []securityeventdomain.Event
	require.NoError(t, db.Where("kind = ?", securityeventdomain.KindLoginFailed).Find(&events).Error)
	assert.Len(t, events, 2)
}

func TestLogin_LockoutAfterThreshold(t *testing.T) {
	svc, db, limiter := setupAuthService(t, "file:auth_lockout?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "sam@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	for i := 0; i < limiter.Threshold(); i++ {
		_, err = svc.Login(ctx, domain.LoginRequest{
			Email:    "sam@example.com",
			Password: "WrongPass1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	// Hitting the threshold records a lockout event instead of another failure.
	var lockouts []securityeventdomain.Event
	require.NoError(t, db.Where("kind = ?", securityeventdomain.KindLockout).Find(&lockouts).Error)
	assert.Len(t, lockouts, 1)

	// Even the right password is refused while locked.
	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "sam@example.com",
		Password: "Str0ngPass",
	})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)

	require.NoError(t, limiter.Reset(ctx, "sam@example.com"))

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "sam@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RawToken)

	// Success clears the counter.
	blocked, err := limiter.Blocked(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _ := setupAuthService(t, "file:auth_logout?mode=memory&cache=shared")
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "ali@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "ali@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, _, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := setupAuthService(t, "file:auth_changepw?mode=memory&cache=shared")
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "nadia@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, domain.ChangePasswordRequest{
		UserID:          user.ID.String(),
		CurrentPassword: "WrongPass1",
		NewPassword:     "NewStr0ngPass",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, domain.ChangePasswordRequest{
		UserID:          user.ID.String(),
		CurrentPassword: "Str0ngPass",
		NewPassword:     "weak",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	err = svc.ChangePassword(ctx, domain.ChangePasswordRequest{
		UserID:          user.ID.String(),
		CurrentPassword: "Str0ngPass",
		NewPassword:     "NewStr0ngPass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{
		Email:    "nadia@example.com",
		Password: "NewStr0ngPass",
	})
	assert.NoError(t, err)
}
