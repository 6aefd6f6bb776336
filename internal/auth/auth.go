package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/golang-jwt/jwt/v5"
)

// Credentials is what login needs to know about an account.
type Credentials struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	FullName     string `db:"full_name"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
}

// NewAccount is a validated signup ready to be stored.
type NewAccount struct {
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type UserView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type SignupResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Claims are the session ticket claims.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	CreateUser(ctx context.Context, account NewAccount) (int64, error)
}

// OTPStore keeps one pending signup code per email.
type OTPStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Consume(ctx context.Context, email, code string) error
}

// OTPDelivery gets a code to its recipient.
type OTPDelivery interface {
	DeliverOTP(ctx context.Context, email, code string) error
}

type TicketIssuer interface {
	Issue(c Credentials) (string, error)
	Verify(token string) (policy.Identity, error)
}

type ServiceAPI interface {
	SendOTP(ctx context.Context, dto SendOTPDTO) error
	Signup(ctx context.Context, dto SignupDTO) (*UserView, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Verify(token string) (policy.Identity, error)
}
