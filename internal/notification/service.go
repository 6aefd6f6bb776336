package notification

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/idea-portal/internal"
	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64) ([]*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListForCaller returns the caller's notifications, newest first.
func (s *Service) ListForCaller(ctx context.Context, caller policy.Identity) ([]*Notification, error) {
	if err := policy.Authorize(caller, policy.ActionReadNotifications, policy.Account(caller.UserID)); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", caller.UserID, "error", err)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}

	out := make([]*Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// MarkRead flags the listed notifications as read. Ids the caller does not own
// are silently ignored and not counted.
func (s *Service) MarkRead(ctx context.Context, caller policy.Identity, dto MarkReadDTO) (*MarkReadResult, error) {
	if err := policy.Authorize(caller, policy.ActionMarkNotifications, policy.Account(caller.UserID)); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	affected, err := s.repo.MarkRead(ctx, caller.UserID, dto.IDs)
	if err != nil {
		s.logger.Error("failed to mark notifications read", "user_id", caller.UserID, "error", err)
		return nil, internal.NewInternalError("failed to mark notifications as read", err)
	}

	s.logger.Info("notifications marked read", "user_id", caller.UserID, "requested", len(dto.IDs), "affected", affected)
	return &MarkReadResult{
		Message:       "Notifications marked as read",
		AffectedCount: affected,
	}, nil
}
