package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/auth/password"
	securityeventdomain "github.com/upeonet/mtandao/internal/securityevent/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Repo        domain.Repository
	SessionRepo domain.SessionRepository
	GenID       *snowflake.Node
	Policy      *password.Policy
	Limiter     domain.LoginLimiter
	Events      securityeventdomain.Service
}

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	genID       *snowflake.Node
	policy      *password.Policy
	limiter     domain.LoginLimiter
	events      securityeventdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("auth.service"),
		repo:        p.Repo,
		sessionRepo: p.SessionRepo,
		genID:       p.GenID,
		policy:      p.Policy,
		limiter:     p.Limiter,
		events:      p.Events,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	role := req.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if issues := s.policy.Validate(req.Password); len(issues) > 0 {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	var customerID *snowflake.ID
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		customerID = &id
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultDisplayName(email)
	}
	user := &domain.User{
		ID:                  s.genID.Generate(),
		Name:                name,
		Email:               email,
		Phone:               strings.TrimSpace(req.Phone),
		PasswordHash:        &hashed,
		Role:                role,
		CustomerID:          customerID,
		LastPasswordChanged: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.limiter.Blocked(ctx, email)
	if err != nil {
		// A limiter outage must not lock everyone out.
		s.log.Warn("login limiter unavailable", zap.Error(err))
	}
	if blocked {
		s.events.Record(ctx, securityeventdomain.RecordRequest{
			UserEmail: email,
			Kind:      securityeventdomain.KindLockout,
			IPAddress: req.IPAddress,
			UserAgent: req.UserAgent,
			Detail:    "login refused, failure threshold reached",
		})
		return nil, domain.ErrAccountLocked
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email, req)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		s.recordFailure(ctx, email, req)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn("failed to reset login failure counter", zap.Error(err))
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.events.Record(ctx, securityeventdomain.RecordRequest{
		UserEmail: email,
		Kind:      securityeventdomain.KindLogin,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})

	return &domain.LoginResult{
		User:      user,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	session, err := s.sessionRepo.FindByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return err
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.User, *domain.Session, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		return nil, nil, err
	}
	if session.RevokedAt != nil {
		return nil, nil, domain.ErrSessionRevoked
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return nil, nil, domain.ErrSessionExpired
	}

	user, err := s.repo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.sessionRepo.Touch(ctx, session.ID); err != nil {
		s.log.Warn("failed to touch session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err),
		)
	}

	return user, session, nil
}

func (s *Service) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	id, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil || !password.Verify(req.CurrentPassword, *user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if issues := s.policy.Validate(req.NewPassword); len(issues) > 0 {
		return domain.ErrWeakPassword
	}

	hashed, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	s.events.Record(ctx, securityeventdomain.RecordRequest{
		UserEmail: user.Email,
		Kind:      securityeventdomain.KindPasswordChanged,
	})

	return nil
}

func (s *Service) recordFailure(ctx context.Context, email string, req domain.LoginRequest) {
	count, err := s.limiter.RecordFailure(ctx, email)
	if err != nil {
		s.log.Warn("failed to record login failure", zap.Error(err))
	}

	kind := securityeventdomain.KindLoginFailed
	if threshold := s.limiter.Threshold(); threshold > 0 && count == int64(threshold) {
		kind = securityeventdomain.KindLockout
	}
	s.events.Record(ctx, securityeventdomain.RecordRequest{
		UserEmail: email,
		Kind:      kind,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	})
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", domain.ErrInvalidCredentials
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return addr.Address, nil
}

func defaultDisplayName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
