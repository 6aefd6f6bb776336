package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/idea-portal/internal"
	ideaDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/idea"
	notificationDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/idea-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/idea-portal/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithinTx(ctx context.Context, fn func(tx user.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepository{db: tx})
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var rows []*userDatamodel.User
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, user.FromDataModel(row))
	}
	return users, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("role", role)
	return result.RowsAffected, result.Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	return result.RowsAffected, result.Error
}

// Delete must run inside WithinTx.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	db := r.db.WithContext(ctx)

	var ideaIDs []int64
	if err := db.Model(&ideaDatamodel.Idea{}).Where("user_id = ?", id).Pluck("id", &ideaIDs).Error; err != nil {
		return 0, err
	}

	owned := func(q *gorm.DB) *gorm.DB {
		if len(ideaIDs) == 0 {
			return q.Where("user_id = ?", id)
		}
		return q.Where("user_id = ? OR idea_id IN ?", id, ideaIDs)
	}

	if err := owned(db).Delete(&notificationDatamodel.Notification{}).Error; err != nil {
		return 0, err
	}
	if err := owned(db).Delete(&ideaDatamodel.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := owned(db).Delete(&ideaDatamodel.Reaction{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("user_id = ?", id).Delete(&ideaDatamodel.Idea{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("id = ?", id).Delete(&userDatamodel.User{})
	return result.RowsAffected, result.Error
}
