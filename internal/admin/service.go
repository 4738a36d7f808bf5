package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/banglahat-backend/pkg/auth"
	"github.com/asifmahmud/banglahat-backend/pkg/auth/session"
	"github.com/asifmahmud/banglahat-backend/pkg/config"
	"github.com/asifmahmud/banglahat-backend/pkg/db/models"
	pkgerrors "github.com/asifmahmud/banglahat-backend/pkg/errors"
	"github.com/asifmahmud/banglahat-backend/pkg/logger"
	"github.com/asifmahmud/banglahat-backend/pkg/security"
)

// SessionManager is the session surface the service needs.
type SessionManager interface {
	Open(ctx context.Context, sessionID, adminID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// RateLimiter guards the login endpoint against credential stuffing.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Profile is the public projection of an admin account.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// LoginResult carries the minted token and its session metadata.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     Profile   `json:"admin"`
}

// Service handles back-office authentication and account management.
type Service interface {
	Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	CreateAccount(ctx context.Context, email, name, password string) (*Profile, error)
}

type service struct {
	repo     Repository
	sessions SessionManager
	limiter  RateLimiter
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	rateCfg  config.AuthRateLimitConfig
	logg     *logger.Logger
}

func NewService(
	repo Repository,
	sessions SessionManager,
	limiter RateLimiter,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	rateCfg config.AuthRateLimitConfig,
	logg *logger.Logger,
) Service {
	return &service{
		repo:     repo,
		sessions: sessions,
		limiter:  limiter,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		rateCfg:  rateCfg,
		logg:     logg,
	}
}

var errInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

func (s *service) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	if err := s.allowLogin(ctx, email, clientIP); err != nil {
		return nil, err
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// indistinguishable from a bad password on purpose
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, errInvalidCredentials
	}

	now := time.Now().UTC()
	jti := session.NewSessionID()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		AdminID: account.ID,
		Email:   account.Email,
		JTI:     jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	if err := s.sessions.Open(ctx, jti, account.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening admin session")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAdminID(ctx, account.ID.String()), "admin logged in")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.AccessTokenTTL()),
		Admin: Profile{
			ID:    account.ID,
			Email: account.Email,
			Name:  account.Name,
		},
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking admin session")
	}
	return nil
}

func (s *service) CreateAccount(ctx context.Context, email, name, password string) (*Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	account := &models.AdminUser{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return &Profile{ID: account.ID, Email: account.Email, Name: account.Name}, nil
}

// allowLogin applies fixed-window limits per email and per client address.
func (s *service) allowLogin(ctx context.Context, email, clientIP string) error {
	if s.limiter == nil {
		return nil
	}

	window := s.rateCfg.LoginWindow
	if window <= 0 {
		return nil
	}

	if s.rateCfg.LoginEmailLimit > 0 {
		ok, _, err := s.limiter.FixedWindowAllow(ctx, "login:email:"+email, int64(s.rateCfg.LoginEmailLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking login rate limit")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	if clientIP != "" && s.rateCfg.LoginIPLimit > 0 {
		ok, _, err := s.limiter.FixedWindowAllow(ctx, "login:ip:"+clientIP, int64(s.rateCfg.LoginIPLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking login rate limit")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts")
		}
	}
	return nil
}
