package idea

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/common/sanitize"
	ideaDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/idea"
	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	"github.com/frahmantamala/idea-portal/internal/core/events"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/notification"
	"github.com/frahmantamala/idea-portal/internal/reaction"
)

// Repository is the persistence contract of the idea lifecycle. Every write
// that belongs to one operation runs inside WithinTx so the state change and
// the notifications it owes commit together.
type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, row *ideaDatamodel.Idea) error
	GetByID(ctx context.Context, id int64) (*ideaDatamodel.Idea, error)
	Update(ctx context.Context, row *ideaDatamodel.Idea) error
	UpdateStatus(ctx context.Context, id int64, status string, editedAt time.Time) error
	Touch(ctx context.Context, id int64, editedAt time.Time) error
	Delete(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, filter ListFilter, viewerID int64) ([]*ideaDatamodel.Idea, error)
	ListByOwner(ctx context.Context, ownerID int64, includeDrafts bool) ([]*ideaDatamodel.Idea, error)

	ListVotes(ctx context.Context, ideaIDs []int64) ([]*ideaDatamodel.ReactionWithRole, error)
	GetReaction(ctx context.Context, ideaID, userID int64) (*ideaDatamodel.Reaction, error)
	CreateReaction(ctx context.Context, row *ideaDatamodel.Reaction) error
	UpdateReaction(ctx context.Context, id int64, reactionType string) error
	DeleteReaction(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, row *ideaDatamodel.Comment) error
	ListComments(ctx context.Context, ideaID int64) ([]*ideaDatamodel.CommentWithAuthor, error)

	GetAuthor(ctx context.Context, userID int64) (*Author, error)
	ListUserIDsByRole(ctx context.Context, role string) ([]int64, error)
	CreateNotifications(ctx context.Context, rows []*notificationDatamodel.Notification) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a new idea owned by the caller. Creating directly in
// Submitted notifies every admin in the same transaction.
func (s *Service) Create(ctx context.Context, caller policy.Identity, dto IdeaDTO) (*Idea, error) {
	if err := policy.Authorize(caller, policy.ActionCreateIdea, policy.OwnedBy(caller.UserID)); err != nil {
		return nil, err
	}
	status, err := dto.Validate()
	if err != nil {
		s.logger.Warn("idea validation failed", "error", err, "user_id", caller.UserID)
		return nil, err
	}

	now := s.now()
	created := NewIdea(caller.UserID, dto.Sanitized(), status, now)

	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		if created.EmployeeName == "" {
			author, err := tx.GetAuthor(ctx, caller.UserID)
			if err != nil {
				return err
			}
			created.EmployeeName = author.FullName
		}

		row := created.ToDataModel()
		if err := tx.Create(ctx, row); err != nil {
			return err
		}
		created.ID = row.ID

		if created.Status != StatusSubmitted {
			return nil
		}
		ev := events.NewIdeaSubmittedEvent(created.ID, created.UserID, created.Title, created.EmployeeName, now)
		return s.fanOut(ctx, tx, ev)
	})
	if err != nil {
		return nil, s.storeError("failed to create idea", err)
	}

	s.logger.Info("idea created", "idea_id", created.ID, "user_id", caller.UserID, "status", created.Status)
	return created, nil
}

// Update rewrites every mutable field of an idea. Only the owner or a
// reviewer may do so. No notifications are produced.
func (s *Service) Update(ctx context.Context, caller policy.Identity, id int64, dto IdeaDTO) (*Idea, error) {
	var updated *Idea
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(caller, policy.ActionEditIdea, policy.OwnedBy(current.UserID)); err != nil {
			return err
		}
		status, err := dto.Validate()
		if err != nil {
			return err
		}

		current.ApplyEdit(dto.Sanitized(), status, s.now())
		if current.EmployeeName == "" {
			author, err := tx.GetAuthor(ctx, current.UserID)
			if err != nil {
				return err
			}
			current.EmployeeName = author.FullName
		}
		if err := tx.Update(ctx, current.ToDataModel()); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, s.storeError("failed to update idea", err)
	}

	s.logger.Info("idea updated", "idea_id", id, "user_id", caller.UserID)
	return updated, nil
}

// Withdraw deletes an idea together with its comments, reactions and notifications.
func (s *Service) Withdraw(ctx context.Context, caller policy.Identity, id int64) error {
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := policy.Authorize(caller, policy.ActionWithdrawIdea, policy.OwnedBy(current.UserID)); err != nil {
			return err
		}
		deleted, err := tx.Delete(ctx, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return internal.ErrIdeaNotFound
		}
		return nil
	})
	if err != nil {
		return s.storeError("failed to delete idea", err)
	}

	s.logger.Info("idea withdrawn", "idea_id", id, "user_id", caller.UserID)
	return nil
}

// BulkUpdateStatus applies a batch of status changes. Each entry commits on
// its own; an entry that is incomplete, unknown or unchanged is skipped and
// the rest of the batch still runs.
func (s *Service) BulkUpdateStatus(ctx context.Context, caller policy.Identity, dto BulkStatusDTO) (*BulkStatusResult, error) {
	if err := policy.Authorize(caller, policy.ActionBulkUpdateStatus, policy.Target{}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	result := &BulkStatusResult{}
	for _, u := range dto.Updates {
		if u.ID <= 0 || strings.TrimSpace(u.Status) == "" {
			result.Skipped++
			continue
		}
		target, _ := ParseStatus(u.Status)

		changed, err := s.applyStatus(ctx, u.ID, target, false)
		switch {
		case errors.Is(err, internal.ErrIdeaNotFound):
			s.logger.Warn("bulk status update skipped missing idea", "idea_id", u.ID)
			result.Skipped++
		case err != nil:
			return nil, s.storeError("failed to update idea status", err)
		case changed:
			result.Applied++
		default:
			result.Unchanged++
		}
	}

	result.Message = "Statuses updated successfully"
	s.logger.Info("bulk status update finished",
		"user_id", caller.UserID,
		"applied", result.Applied,
		"unchanged", result.Unchanged,
		"skipped", result.Skipped)
	return result, nil
}

// applyStatus moves one idea to target and notifies its owner when the
// stored status actually changed.
func (s *Service) applyStatus(ctx context.Context, id int64, target Status, byExecutive bool) (bool, error) {
	changed := false
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		changed, err = s.changeStatus(ctx, tx, current, target, byExecutive)
		return err
	})
	return changed, err
}

func (s *Service) changeStatus(ctx context.Context, tx Repository, current *Idea, target Status, byExecutive bool) (bool, error) {
	previous := current.Status
	now := s.now()
	if !current.ChangeStatus(target, now) {
		return false, nil
	}
	if err := tx.UpdateStatus(ctx, current.ID, string(current.Status), now); err != nil {
		return false, err
	}
	ev := events.NewIdeaStatusChangedEvent(current.ID, current.UserID, current.Title, string(previous), string(current.Status), byExecutive, now)
	if err := s.fanOut(ctx, tx, ev); err != nil {
		return false, err
	}
	return true, nil
}

// React toggles the caller's reaction. A CEO reaction that is added or
// updated also drives the idea to Approved or Rejected.
func (s *Service) React(ctx context.Context, caller policy.Identity, id int64, dto ReactDTO) (*reaction.Result, error) {
	if err := policy.Authorize(caller, policy.ActionReact, policy.Target{}); err != nil {
		return nil, err
	}
	requested, err := reaction.ParseType(dto.ReactionType)
	if err != nil {
		return nil, err
	}

	var result *reaction.Result
	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.VisibleTo(caller.UserID) {
			return internal.ErrIdeaNotFound
		}

		stored, err := tx.GetReaction(ctx, id, caller.UserID)
		if err != nil {
			return err
		}
		var existing *reaction.Type
		if stored != nil {
			t := reaction.Type(stored.ReactionType)
			existing = &t
		}

		effect, after := reaction.Toggle(existing, requested)
		switch effect {
		case reaction.EffectAdded:
			err = tx.CreateReaction(ctx, &ideaDatamodel.Reaction{
				IdeaID:       id,
				UserID:       caller.UserID,
				ReactionType: string(requested),
			})
		case reaction.EffectRemoved:
			err = tx.DeleteReaction(ctx, stored.ID)
		case reaction.EffectUpdated:
			err = tx.UpdateReaction(ctx, stored.ID, string(requested))
		}
		if err != nil {
			return err
		}

		if verdict, ok := reaction.ExecutiveVerdict(caller.Role, requested, effect); ok {
			if _, err := s.changeStatus(ctx, tx, current, StatusForVerdict(verdict), true); err != nil {
				return err
			}
		}

		rows, err := tx.ListVotes(ctx, []int64{id})
		if err != nil {
			return err
		}
		tally := reaction.Summarize(votesFromRows(rows))
		result = &reaction.Result{
			Message:      effect.Message(),
			Effect:       effect,
			Likes:        tally.Likes,
			Dislikes:     tally.Dislikes,
			Score:        tally.Score,
			UserReaction: after,
			Status:       string(current.Status),
		}
		return nil
	})
	if err != nil {
		return nil, s.storeError("failed to record reaction", err)
	}

	s.logger.Info("reaction recorded", "idea_id", id, "user_id", caller.UserID, "effect", result.Effect, "score", result.Score)
	return result, nil
}

// AddComment stores a comment, refreshes the idea's edit time and fans out
// notifications to the owner and to admins.
func (s *Service) AddComment(ctx context.Context, caller policy.Identity, id int64, dto CommentDTO) (*Comment, error) {
	if err := policy.Authorize(caller, policy.ActionComment, policy.Target{}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	text := sanitize.Text(dto.Comment)
	if text == "" {
		return nil, internal.NewValidationFieldError("comment", "comment is required", internal.ErrCodeValidationFailed)
	}

	var created *Comment
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if !current.VisibleTo(caller.UserID) {
			return internal.ErrIdeaNotFound
		}
		author, err := tx.GetAuthor(ctx, caller.UserID)
		if err != nil {
			return err
		}

		now := s.now()
		row := &ideaDatamodel.Comment{
			IdeaID:    id,
			UserID:    caller.UserID,
			Comment:   text,
			CreatedAt: now,
		}
		if err := tx.CreateComment(ctx, row); err != nil {
			return err
		}
		if err := tx.Touch(ctx, id, now); err != nil {
			return err
		}

		authorRole, _ := policy.ParseRole(author.Role)
		ev := events.NewCommentPostedEvent(id, current.UserID, current.Title, author.ID, author.Email, authorRole == policy.RoleAdmin, now)
		if err := s.fanOut(ctx, tx, ev); err != nil {
			return err
		}

		created = &Comment{
			ID:        row.ID,
			IdeaID:    id,
			UserID:    caller.UserID,
			Comment:   text,
			CreatedAt: now,
			Email:     author.Email,
			Role:      author.Role,
		}
		return nil
	})
	if err != nil {
		return nil, s.storeError("failed to add comment", err)
	}

	s.logger.Info("comment added", "idea_id", id, "user_id", caller.UserID, "comment_id", created.ID)
	return created, nil
}

// ListComments returns the comments of a visible idea, oldest first.
func (s *Service) ListComments(ctx context.Context, caller policy.Identity, id int64) ([]*Comment, error) {
	if err := policy.Authorize(caller, policy.ActionReadIdeas, policy.Target{}); err != nil {
		return nil, err
	}
	current, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, s.storeError("failed to load idea", err)
	}
	if !current.VisibleTo(caller.UserID) {
		return nil, internal.ErrIdeaNotFound
	}

	rows, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, s.storeError("failed to list comments", err)
	}
	out := make([]*Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, CommentFromDataModel(row))
	}
	return out, nil
}

// List returns the ideas visible to the caller that match filter, ranked.
func (s *Service) List(ctx context.Context, caller policy.Identity, filter ListFilter) ([]*View, error) {
	if err := policy.Authorize(caller, policy.ActionReadIdeas, policy.Target{}); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, filter, caller.UserID)
	if err != nil {
		return nil, s.storeError("failed to list ideas", err)
	}
	views, err := s.decorate(ctx, rows, caller.UserID)
	if err != nil {
		return nil, err
	}
	Rank(views)
	return views, nil
}

// ListByOwner returns one user's ideas, newest first. Drafts are included
// only when the caller is that user.
func (s *Service) ListByOwner(ctx context.Context, caller policy.Identity, ownerID int64) ([]*View, error) {
	if err := policy.Authorize(caller, policy.ActionReadIdeas, policy.Target{}); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByOwner(ctx, ownerID, caller.UserID == ownerID)
	if err != nil {
		return nil, s.storeError("failed to list ideas", err)
	}
	return s.decorate(ctx, rows, caller.UserID)
}

func (s *Service) decorate(ctx context.Context, rows []*ideaDatamodel.Idea, viewerID int64) ([]*View, error) {
	ideas := make([]*Idea, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		i := FromDataModel(row)
		if !i.VisibleTo(viewerID) {
			continue
		}
		ideas = append(ideas, i)
		ids = append(ids, i.ID)
	}

	var votes []reaction.Vote
	if len(ids) > 0 {
		voteRows, err := s.repo.ListVotes(ctx, ids)
		if err != nil {
			return nil, s.storeError("failed to load reactions", err)
		}
		votes = votesFromRows(voteRows)
	}
	return BuildViews(ideas, votes, viewerID), nil
}

func (s *Service) load(ctx context.Context, repo Repository, id int64) (*Idea, error) {
	row, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// fanOut derives the notifications owed by ev and stores them with tx.
func (s *Service) fanOut(ctx context.Context, tx Repository, ev events.Event) error {
	var reviewers []int64
	if ev.EventType() != events.EventTypeIdeaStatusChanged {
		ids, err := tx.ListUserIDsByRole(ctx, string(policy.RoleAdmin))
		if err != nil {
			return err
		}
		reviewers = ids
	}

	derived := notification.Derive(ev, reviewers)
	if len(derived) == 0 {
		return nil
	}
	rows := make([]*notificationDatamodel.Notification, 0, len(derived))
	for _, n := range derived {
		rows = append(rows, n.ToDataModel())
	}
	if err := tx.CreateNotifications(ctx, rows); err != nil {
		return err
	}
	s.logger.Debug("notifications fanned out", "event_type", ev.EventType(), "event_id", ev.EventID(), "count", len(rows))
	return nil
}

// storeError passes taxonomy errors through and wraps everything else.
func (s *Service) storeError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, "error", err)
	return internal.NewInternalError(message, err)
}

func votesFromRows(rows []*ideaDatamodel.ReactionWithRole) []reaction.Vote {
	votes := make([]reaction.Vote, 0, len(rows))
	for _, r := range rows {
		votes = append(votes, reaction.Vote{
			IdeaID: r.IdeaID,
			UserID: r.UserID,
			Type:   reaction.Type(r.ReactionType),
			Role:   policy.Role(r.Role),
		})
	}
	return votes
}
