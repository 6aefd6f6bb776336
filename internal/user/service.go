package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateRole(ctx context.Context, id int64, role string) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	// Delete removes the user and everything they own or touched.
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

func (s *Service) GetMe(ctx context.Context, caller policy.Identity) (*User, error) {
	if err := policy.Authorize(caller, policy.ActionReadSelf, policy.Account(caller.UserID)); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, s.storeError("failed to get user", err)
	}
	return u, nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context, caller policy.Identity) ([]*User, error) {
	if err := policy.Authorize(caller, policy.ActionListUsers, policy.Target{}); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storeError("failed to list users", err)
	}
	return users, nil
}

// ChangeRole assigns one of the assignable roles. Superadmin is never assignable
// and callers cannot change their own role.
func (s *Service) ChangeRole(ctx context.Context, caller policy.Identity, id int64, dto ChangeRoleDTO) error {
	if err := policy.Authorize(caller, policy.ActionChangeRole, policy.Account(id)); err != nil {
		return err
	}
	role, err := policy.ParseAssignableRole(dto.Role)
	if err != nil {
		return err
	}

	affected, err := s.repo.UpdateRole(ctx, id, string(role))
	if err != nil {
		return s.storeError("failed to update role", err)
	}
	if affected == 0 {
		return internal.ErrUserNotFound
	}

	s.logger.Info("user role changed", "user_id", id, "role", role, "by", caller.UserID)
	return nil
}

// DeleteUser removes an account with its ideas, comments, reactions and
// notifications in one transaction.
func (s *Service) DeleteUser(ctx context.Context, caller policy.Identity, id int64) error {
	if err := policy.Authorize(caller, policy.ActionDeleteUser, policy.Account(id)); err != nil {
		return err
	}

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		affected, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return s.storeError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "by", caller.UserID)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, caller policy.Identity, id int64, dto ResetPasswordDTO) error {
	if err := policy.Authorize(caller, policy.ActionResetPassword, policy.Account(id)); err != nil {
		return err
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	affected, err := s.repo.UpdatePassword(ctx, id, string(hash))
	if err != nil {
		return s.storeError("failed to update password", err)
	}
	if affected == 0 {
		return internal.ErrUserNotFound
	}

	s.logger.Info("user password reset", "user_id", id, "by", caller.UserID)
	return nil
}

func (s *Service) storeError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}
