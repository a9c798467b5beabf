package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	apperrors "memberdir/internal/errors"
	"memberdir/internal/model"
	"memberdir/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// MemberService handles member lifecycle operations.
type MemberService interface {
	Register(ctx context.Context, member *model.Member) (*model.Member, error)
	Login(ctx context.Context, email, password string) (*model.Member, error)
	Profile(ctx context.Context, id uint) (*model.Member, error)
	UpdateProfile(ctx context.Context, member *model.Member) error
	Delete(ctx context.Context, id uint) error
}

type memberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

// Register creates a new member after checking username then email for
// conflicts, in that order. The unique indexes remain the source of truth:
// the pre-checks only pick the friendlier message, and a racing insert
// still surfaces as a conflict rather than a server error.
func (s *memberService) Register(ctx context.Context, member *model.Member) (*model.Member, error) {
	taken, err := s.memberRepo.UsernameExists(ctx, member.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	taken, err = s.memberRepo.EmailExists(ctx, member.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create member: %w", err)
	}

	logger.Info().Uint("id", member.ID).Str("username", member.Username).Msg("member registered")
	return member, nil
}

// Login looks up a member by the exact email and password pair. A miss on
// either field yields the same error.
func (s *memberService) Login(ctx context.Context, email, password string) (*model.Member, error) {
	member, err := s.memberRepo.FindByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find by credentials: %w", err)
	}
	return member, nil
}

// Profile fetches a member by id.
func (s *memberService) Profile(ctx context.Context, id uint) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member %d: %w", id, err)
	}
	return member, nil
}

// UpdateProfile overwrites email, password, phone and birthdate together
// for an existing member. Username is immutable. The new email must not
// belong to any other member; keeping the current email is allowed.
func (s *memberService) UpdateProfile(ctx context.Context, member *model.Member) error {
	if _, err := s.Profile(ctx, member.ID); err != nil {
		return err
	}

	taken, err := s.memberRepo.EmailTakenByOther(ctx, member.Email, member.ID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return apperrors.ErrEmailTaken
	}

	if err := s.memberRepo.UpdateProfile(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("update member %d: %w", member.ID, err)
	}

	logger.Info().Uint("id", member.ID).Msg("member profile updated")
	return nil
}

// Delete removes a member by id. Deleting an id that does not exist is a
// silent no-op.
func (s *memberService) Delete(ctx context.Context, id uint) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete member %d: %w", id, err)
	}
	logger.Info().Uint("id", id).Msg("member deleted")
	return nil
}
