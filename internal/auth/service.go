package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/otp"
	"golang.org/x/crypto/bcrypt"
)

// Options are the tunables of the credential flow.
type Options struct {
	AllowedDomain string
	OTPTTL        time.Duration
	BCryptCost    int
}

// Service is the main auth service with dependencies
type Service struct {
	repo     RepositoryAPI
	tickets  TicketIssuer
	otps     OTPStore
	delivery OTPDelivery
	logger   *slog.Logger
	opts     Options
	generate func() (string, error)
	now      func() time.Time
}

func NewService(repo RepositoryAPI, tickets TicketIssuer, otps OTPStore, delivery OTPDelivery, logger *slog.Logger, opts Options) *Service {
	if opts.AllowedDomain == "" {
		opts.AllowedDomain = internal.DefaultAllowedEmailDomain
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = internal.DefaultOTPTTL
	}
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		tickets:  tickets,
		otps:     otps,
		delivery: delivery,
		logger:   logger,
		opts:     opts,
		generate: otp.Generate,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithCodeGenerator replaces the OTP source. Used by tests.
func (s *Service) WithCodeGenerator(gen func() (string, error)) *Service {
	s.generate = gen
	return s
}

// SendOTP issues a fresh signup code for an address in the allowed domain
// and queues it for delivery.
func (s *Service) SendOTP(ctx context.Context, dto SendOTPDTO) error {
	if err := dto.Validate(s.opts.AllowedDomain); err != nil {
		return err
	}
	email := normalizeEmail(dto.Email)

	code, err := s.generate()
	if err != nil {
		return internal.NewInternalError("failed to generate OTP", err)
	}
	if err := s.otps.Save(ctx, email, code, s.opts.OTPTTL); err != nil {
		s.logger.Error("otp store failed", "email", email, "error", err)
		return internal.NewInternalError("failed to store OTP", err)
	}
	if err := s.delivery.DeliverOTP(ctx, email, code); err != nil {
		s.logger.Error("otp delivery failed", "email", email, "error", err)
		return internal.NewInternalError("failed to send OTP", err)
	}

	s.logger.Info("otp issued", "email", email)
	return nil
}

// Signup creates a regular user after the OTP for the address is redeemed.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*UserView, error) {
	if err := dto.Validate(s.opts.AllowedDomain); err != nil {
		return nil, err
	}
	email := normalizeEmail(dto.Email)

	if err := s.otps.Consume(ctx, email, dto.OTP); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("otp lookup failed", "email", email, "error", err)
		return nil, internal.NewInternalError("failed to verify OTP", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.opts.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	account := NewAccount{
		Email:        email,
		FullName:     strings.TrimSpace(dto.FullName),
		Phone:        dto.Phone,
		PasswordHash: string(hash),
		Role:         string(policy.RoleUser),
		CreatedAt:    s.now(),
	}
	id, err := s.repo.CreateUser(ctx, account)
	if err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("user insert failed", "email", email, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user signed up", "user_id", id, "email", email)
	return &UserView{ID: id, Email: email, Role: account.Role, FullName: account.FullName}, nil
}

// Login verifies credentials and issues a session ticket.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(dto.Email)

	creds, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("credential lookup failed", "email", email, "error", err)
		return nil, internal.NewInternalError("failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected", "email", email)
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tickets.Issue(*creds)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue ticket", err)
	}

	s.logger.Info("user logged in", "user_id", creds.ID)
	return &LoginResponse{
		Token: token,
		User: UserView{
			ID:       creds.ID,
			Email:    creds.Email,
			Role:     creds.Role,
			FullName: creds.FullName,
		},
	}, nil
}

func (s *Service) Verify(token string) (policy.Identity, error) {
	return s.tickets.Verify(token)
}
