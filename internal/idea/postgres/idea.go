package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/internal"
	ideaDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/idea"
	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/idea-portal/internal/idea"
	"gorm.io/gorm"
)

// likeEscaper makes LIKE wildcards in search text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// IdeaRepository implements idea.Repository using GORM
type IdeaRepository struct {
	db *gorm.DB
}

func NewIdeaRepository(db *gorm.DB) idea.Repository {
	return &IdeaRepository{db: db}
}

func (r *IdeaRepository) WithinTx(ctx context.Context, fn func(tx idea.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&IdeaRepository{db: tx})
	})
}

func (r *IdeaRepository) Create(ctx context.Context, row *ideaDatamodel.Idea) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *IdeaRepository) GetByID(ctx context.Context, id int64) (*ideaDatamodel.Idea, error) {
	var row ideaDatamodel.Idea
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrIdeaNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update rewrites every column except identity, owner and creation time.
func (r *IdeaRepository) Update(ctx context.Context, row *ideaDatamodel.Idea) error {
	result := r.db.WithContext(ctx).
		Model(&ideaDatamodel.Idea{ID: row.ID}).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrIdeaNotFound
	}
	return nil
}

func (r *IdeaRepository) UpdateStatus(ctx context.Context, id int64, status string, editedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ideaDatamodel.Idea{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"last_edited_at": editedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrIdeaNotFound
	}
	return nil
}

func (r *IdeaRepository) Touch(ctx context.Context, id int64, editedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&ideaDatamodel.Idea{}).
		Where("id = ?", id).
		Update("last_edited_at", editedAt).Error
}

// Delete removes an idea and everything that hangs off it. It must run inside WithinTx.
func (r *IdeaRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("idea_id = ?", id).Delete(&ideaDatamodel.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("idea_id = ?", id).Delete(&ideaDatamodel.Reaction{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("idea_id = ?", id).Delete(&notificationDatamodel.Notification{}).Error; err != nil {
		return 0, err
	}
	result := db.Where("id = ?", id).Delete(&ideaDatamodel.Idea{})
	return result.RowsAffected, result.Error
}

// List applies the visibility rule and the filters. Ranking happens in the service.
func (r *IdeaRepository) List(ctx context.Context, filter idea.ListFilter, viewerID int64) ([]*ideaDatamodel.Idea, error) {
	q := r.db.WithContext(ctx).
		Model(&ideaDatamodel.Idea{}).
		Where("(status <> ? OR user_id = ?)", string(idea.StatusDraft), viewerID)

	if filter.Search != "" {
		like := "%" + likeEscaper.Replace(filter.Search) + "%"
		q = q.Where(`(LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(employee_name) LIKE LOWER(?) ESCAPE '\')`, like, like)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Company != "" {
		q = q.Where("company = ?", filter.Company)
	}
	if filter.StartDate != nil {
		q = q.Where("submission_date >= ?", filter.StartDate.UTC())
	}
	if end := filter.EndExclusive(); end != nil {
		q = q.Where("submission_date < ?", end.UTC())
	}

	var rows []*ideaDatamodel.Idea
	err := q.Order("submission_date DESC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *IdeaRepository) ListByOwner(ctx context.Context, ownerID int64, includeDrafts bool) ([]*ideaDatamodel.Idea, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if !includeDrafts {
		q = q.Where("status <> ?", string(idea.StatusDraft))
	}

	var rows []*ideaDatamodel.Idea
	err := q.Order("submission_date DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *IdeaRepository) ListVotes(ctx context.Context, ideaIDs []int64) ([]*ideaDatamodel.ReactionWithRole, error) {
	var rows []*ideaDatamodel.ReactionWithRole
	err := r.db.WithContext(ctx).
		Table("idea_reactions AS r").
		Select("r.idea_id, r.user_id, r.reaction_type, u.role").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.idea_id IN ?", ideaIDs).
		Scan(&rows).Error
	return rows, err
}

// GetReaction returns nil when the user has not reacted to the idea.
func (r *IdeaRepository) GetReaction(ctx context.Context, ideaID, userID int64) (*ideaDatamodel.Reaction, error) {
	var row ideaDatamodel.Reaction
	err := r.db.WithContext(ctx).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *IdeaRepository) CreateReaction(ctx context.Context, row *ideaDatamodel.Reaction) error {
	err := r.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateReaction
	}
	return err
}

func (r *IdeaRepository) UpdateReaction(ctx context.Context, id int64, reactionType string) error {
	return r.db.WithContext(ctx).
		Model(&ideaDatamodel.Reaction{}).
		Where("id = ?", id).
		Update("reaction_type", reactionType).Error
}

func (r *IdeaRepository) DeleteReaction(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ideaDatamodel.Reaction{}).Error
}

func (r *IdeaRepository) CreateComment(ctx context.Context, row *ideaDatamodel.Comment) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *IdeaRepository) ListComments(ctx context.Context, ideaID int64) ([]*ideaDatamodel.CommentWithAuthor, error) {
	var rows []*ideaDatamodel.CommentWithAuthor
	err := r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.idea_id, c.user_id, c.comment, c.created_at, u.email, u.role").
		Joins("JOIN users u ON u.id = c.user_id").
		Where("c.idea_id = ?", ideaID).
		Order("c.created_at ASC").
		Order("c.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *IdeaRepository) GetAuthor(ctx context.Context, userID int64) (*idea.Author, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "full_name", "role").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &idea.Author{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}, nil
}

func (r *IdeaRepository) ListUserIDsByRole(ctx context.Context, role string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("role = ?", role).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *IdeaRepository) CreateNotifications(ctx context.Context, rows []*notificationDatamodel.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
