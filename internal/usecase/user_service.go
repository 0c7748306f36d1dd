package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prodehub/prode-api/internal/domain/user"
)

// UserService mirrors authenticated principals into the local directory so
// leaderboards can show usernames without asking the auth provider.
type UserService struct {
	userRepo user.Repository
	now      func() time.Time
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *UserService) RememberPrincipal(ctx context.Context, principal user.Principal) error {
	principal.ID = strings.TrimSpace(principal.ID)
	if principal.ID == "" {
		return fmt.Errorf("%w: principal id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	record := user.Record{
		ID:       principal.ID,
		Username: strings.TrimSpace(principal.Username),
		Email:    strings.TrimSpace(principal.Email),
		LastSeen: now,
	}

	existing, exists, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		return fmt.Errorf("get user record: %w", err)
	}
	if exists {
		record.CreatedAt = existing.CreatedAt
		if record.Username == "" {
			record.Username = existing.Username
		}
		if record.Email == "" {
			record.Email = existing.Email
		}
	} else {
		record.CreatedAt = now
	}

	if err := s.userRepo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert user record: %w", err)
	}
	return nil
}
