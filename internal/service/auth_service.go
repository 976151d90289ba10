package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/wildoasis/cabin-bookings/internal/domain"
	"github.com/wildoasis/cabin-bookings/internal/platform/auth"
	"github.com/wildoasis/cabin-bookings/internal/platform/identity"
	"github.com/wildoasis/cabin-bookings/internal/platform/mailer"
	"github.com/wildoasis/cabin-bookings/internal/repo/postgres"
	"github.com/wildoasis/cabin-bookings/internal/utils"
	"github.com/wildoasis/cabin-bookings/pkg/config"
	"github.com/wildoasis/cabin-bookings/pkg/logger"
)

type AuthService interface {
	// SignIn consumes the OAuth callback payload and yields a session.
	SignIn(ctx context.Context, req *domain.SignInReq) (*domain.SessionResponse, error)
	// RequestAccess mails a one-time code for guests signing in by email.
	RequestAccess(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (*domain.SessionResponse, error)
	VerifyMagicLink(ctx context.Context, token string) (*domain.SessionResponse, error)
}

type authService struct {
	resolver *identity.Resolver
	access   postgres.AccessRepository
	mailer   mailer.Service
	cfg      *config.Config
}

func NewAuthService(resolver *identity.Resolver, access postgres.AccessRepository, mailSvc mailer.Service, cfg *config.Config) AuthService {
	return &authService{
		resolver: resolver,
		access:   access,
		mailer:   mailSvc,
		cfg:      cfg,
	}
}

func (s *authService) SignIn(ctx context.Context, req *domain.SignInReq) (*domain.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	guest, err := s.resolver.Resolve(ctx, req.Email, req.Name)
	if err != nil {
		return nil, err
	}

	return s.session(guest)
}

func (s *authService) RequestAccess(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	req := domain.SignInReq{Email: email, Name: email}
	if err := req.Validate(); err != nil {
		return err
	}

	code, err := generateAccessCode()
	if err != nil {
		return fmt.Errorf("failed to generate access code: %w", err)
	}

	codeHash, err := argon2id.CreateHash(code, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash access code: %w", err)
	}

	magicToken := uuid.NewString()
	expiresAt := time.Now().Add(s.cfg.Auth.AccessCodeTTL)

	if err := s.access.CreateAccessCode(ctx, email, codeHash, magicToken, expiresAt); err != nil {
		return fmt.Errorf("failed to store access code: %w", err)
	}

	magicLink := fmt.Sprintf("%s/login/magic?token=%s", s.cfg.Auth.SiteURL, magicToken)
	if err := s.mailer.SendAccessCode(email, code, magicLink); err != nil {
		// The code exists; the guest can retry the email or use the link later.
		logger.ErrorContext(ctx, "Failed to send access code email", "error", err, "email", email)
	}

	return nil
}

func (s *authService) VerifyCode(ctx context.Context, email, code string) (*domain.SessionResponse, error) {
	email = utils.NormalizeEmail(email)

	ac, err := s.access.GetActiveCode(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if ac == nil {
		return nil, fmt.Errorf("%w: invalid or expired verification code", domain.ErrUnauthenticated)
	}

	match, err := argon2id.ComparePasswordAndHash(code, ac.CodeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !match {
		return nil, fmt.Errorf("%w: invalid or expired verification code", domain.ErrUnauthenticated)
	}

	if err := s.access.MarkUsed(ctx, ac.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to mark access code used", "error", err, "email", email)
	}

	guest, err := s.resolver.Resolve(ctx, email, email)
	if err != nil {
		return nil, err
	}

	return s.session(guest)
}

func (s *authService) VerifyMagicLink(ctx context.Context, token string) (*domain.SessionResponse, error) {
	email, ok, err := s.access.ConsumeMagic(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to verify magic link: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid or expired magic link", domain.ErrUnauthenticated)
	}

	guest, err := s.resolver.Resolve(ctx, email, email)
	if err != nil {
		return nil, err
	}

	return s.session(guest)
}

func (s *authService) session(guest *domain.Guest) (*domain.SessionResponse, error) {
	token, err := auth.NewSessionToken(guest, s.cfg.Auth.JWTSecret, s.cfg.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.SessionResponse{
		SessionToken: token,
		ExpiresIn:    int64(s.cfg.Auth.SessionTTL.Seconds()),
	}, nil
}

func generateAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
