package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"membership-api/internal/domain"
	"membership-api/internal/repository"
)

const maxProfileFieldLength = 100

// ProfileInput son los campos que el titular puede editar; nil deja el valor actual.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// ProfileService lee y actualiza el perfil de la cuenta autenticada.
type ProfileService struct {
	logger   *zap.Logger
	accounts repository.AccountRepository
	cache    ProfileCache
}

func NewProfileService(logger *zap.Logger, accounts repository.AccountRepository, cache ProfileCache) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger:   logger,
		accounts: accounts,
		cache:    cache,
	}
}

func (s *ProfileService) Get(ctx context.Context, accountID string) (domain.Profile, error) {
	if s.accounts == nil {
		return domain.Profile{}, errors.New("profile service not configured")
	}
	if s.cache != nil {
		if profile, ok := s.cache.Get(ctx, accountID); ok {
			return profile, nil
		}
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return domain.Profile{}, err
	}
	profile := account.Profile()
	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, accountID string, input ProfileInput) (domain.Profile, error) {
	if s.accounts == nil {
		return domain.Profile{}, errors.New("profile service not configured")
	}

	update := repository.ProfileUpdate{}
	var err error
	if update.FirstName, err = cleanProfileField("first_name", input.FirstName); err != nil {
		return domain.Profile{}, err
	}
	if update.LastName, err = cleanProfileField("last_name", input.LastName); err != nil {
		return domain.Profile{}, err
	}
	if update.Phone, err = cleanProfileField("phone", input.Phone); err != nil {
		return domain.Profile{}, err
	}

	if s.cache != nil {
		s.cache.Delete(ctx, accountID)
	}
	account, err := s.accounts.UpdateProfile(ctx, accountID, update)
	if err != nil {
		return domain.Profile{}, err
	}
	s.logger.Debug("profile updated", zap.String("user_id", accountID))

	profile := account.Profile()
	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

func cleanProfileField(name string, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if utf8.RuneCountInString(trimmed) > maxProfileFieldLength {
		return nil, validationError(fmt.Sprintf("%s must be at most %d characters long", name, maxProfileFieldLength))
	}
	return &trimmed, nil
}
