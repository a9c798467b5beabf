package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"memberdir/internal/model"
)

// MemberRepository defines member persistence operations.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uint) (*model.Member, error)
	FindByCredentials(ctx context.Context, email, password string) (*model.Member, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error)
	UpdateProfile(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uint) error
	CreateIfAbsent(ctx context.Context, member *model.Member) (created bool, err error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository builds a GORM-backed repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByCredentials looks up a member by the exact email and password pair.
// The comparison is case-sensitive with no normalization.
func (r *memberRepository) FindByCredentials(ctx context.Context, email, password string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).
		Where("email = ? AND password = ?", email, password).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *memberRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailTakenByOther reports whether the email belongs to a member other
// than the given id.
func (r *memberRepository) EmailTakenByOther(ctx context.Context, email string, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateProfile overwrites the mutable fields of a member in one statement.
// Username is never touched after creation.
func (r *memberRepository) UpdateProfile(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"email":     member.Email,
			"password":  member.Password,
			"phone":     member.Phone,
			"birthdate": member.Birthdate,
		}).Error
}

// Delete removes a member by id. Deleting an absent id is not an error.
func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Member{}, id).Error
}

// CreateIfAbsent inserts the member unless one with the same username
// already exists. A duplicate key from the insert itself (same email under
// a new username) also counts as already present. Used for the startup
// seed record and the import tool.
func (r *memberRepository) CreateIfAbsent(ctx context.Context, member *model.Member) (bool, error) {
	var existing model.Member
	err := r.db.WithContext(ctx).Where("username = ?", member.Username).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
