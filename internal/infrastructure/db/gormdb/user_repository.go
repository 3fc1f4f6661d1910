package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// UserRepository implements ports.UserRepository on gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, roles []domain.Role) error {
	rec := userRecord{
		Name:     user.Name,
		Email:    user.Email,
		Age:      user.Age,
		Username: user.Username,
		Password: user.Password,
	}
	for _, role := range roles {
		rec.Roles = append(rec.Roles, roleRecord{ID: role.ID, Name: role.Name})
	}

	// Roles are reference data: link them, never upsert them.
	if err := r.db.WithContext(ctx).Omit("Roles.*").Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return err
	}

	*user = *toDomainUser(&rec)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByUsernameWithRoles(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, arg).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(&rec), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Preload("Roles").Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(recs))
	for i := range recs {
		out = append(out, toDomainUser(&recs[i]))
	}
	return out, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", user.ID).Updates(touched(ctx, map[string]any{
		"name":  user.Name,
		"age":   user.Age,
		"email": user.Email,
	}))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user together with its role links.
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := userRecord{ID: id}
		if err := tx.Model(&rec).Association("Roles").Clear(); err != nil {
			return fmt.Errorf("unlink roles: %w", err)
		}
		res := tx.Delete(&userRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// SetRegistered is a single conditional UPDATE, so concurrent transitions on
// the same row cannot both succeed.
func (r *UserRepository) SetRegistered(ctx context.Context, id uint64, from, to bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&userRecord{}).
		Where("id = ? AND registered = ?", id, from).
		Updates(touched(ctx, map[string]any{"registered": to}))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RoleRepository implements ports.RoleRepository on gorm.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) ports.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Ensure(ctx context.Context, name string) (*domain.Role, error) {
	var rec roleRecord
	if err := r.db.WithContext(ctx).Where(roleRecord{Name: name}).FirstOrCreate(&rec).Error; err != nil {
		return nil, fmt.Errorf("ensure role %s: %w", name, err)
	}
	return &domain.Role{ID: rec.ID, Name: rec.Name}, nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var rec roleRecord
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&rec).Error; err != nil {
		return nil, fmt.Errorf("find role %s: %w", name, err)
	}
	return &domain.Role{ID: rec.ID, Name: rec.Name}, nil
}
