package service

import (
	"context"
	"log"
	"time"

	"pantry-chef-api/internal/cache"
	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/repository"
	"pantry-chef-api/pkg/apierror"
	"pantry-chef-api/pkg/uid"
)

const userCacheKeyPrefix = "user:ext:"

// IdentityService maps a verified principal to an internal user, creating it on
// first sight.
type IdentityService struct {
	userRepo repository.UserRepository
	cache    cache.Cache
	ttl      time.Duration
}

// NewIdentityService creates a new identity service. c may be nil to disable caching.
func NewIdentityService(userRepo repository.UserRepository, c cache.Cache, ttl time.Duration) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		cache:    c,
		ttl:      ttl,
	}
}

// GetOrCreateUser resolves the principal. A nil principal is unauthenticated.
func (s *IdentityService) GetOrCreateUser(ctx context.Context, principal *model.Principal) (*model.User, error) {
	if principal == nil || principal.ExternalID == "" {
		return nil, apierror.Unauthorized("Authentication required")
	}

	load := func() (*model.User, error) {
		now := time.Now().UTC()
		candidate := &model.User{
			ID:         uid.New(),
			ExternalID: principal.ExternalID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if principal.Email != "" {
			email := principal.Email
			candidate.Email = &email
		}
		return s.userRepo.GetOrCreate(ctx, candidate)
	}

	var (
		user *model.User
		err  error
	)
	if s.cache != nil {
		user, err = cache.GetOrSetJSON(ctx, s.cache, userCacheKeyPrefix+principal.ExternalID, s.ttl, load)
	} else {
		user, err = load()
	}
	if err != nil {
		log.Printf("[IdentityService] Failed to resolve user %s: %v", principal.ExternalID, err)
		return nil, apierror.InternalError("Failed to sync user. Please try again.")
	}

	return user, nil
}
