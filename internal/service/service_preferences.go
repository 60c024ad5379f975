package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-prefs/internal/logger"
	"github.com/MKhiriev/go-user-prefs/internal/store"
	"github.com/MKhiriev/go-user-prefs/models"
)

// preferencesService is the concrete implementation of PreferencesService.
//
// It owns the self-healing read: a user whose document is missing (fresh
// account, manual cleanup, partial failure during registration) gets the
// defaults materialised transparently instead of a not-found error.
type preferencesService struct {
	preferencesRepository store.PreferencesRepository

	// userRepository supplies the identity attributes (username, email)
	// the self-healing read seeds the account group with.
	userRepository store.UserRepository

	logger *logger.Logger
}

// NewPreferencesService constructs the raw PreferencesService. Callers
// normally wrap it with NewPreferencesValidationService.
func NewPreferencesService(storages *store.Storages, logger *logger.Logger) PreferencesService {
	return &preferencesService{
		preferencesRepository: storages.PreferencesRepository,
		userRepository:        storages.UserRepository,
		logger:                logger,
	}
}

// GetMine returns the caller's preferences document.
//
// When no document exists the defaults are materialised and persisted: the
// owner is looked up for identity attributes, DefaultPreferences builds the
// document, and Create stores it. A concurrent provisioning race (another
// request creating the document between the failed read and the insert)
// is resolved by re-reading. The method never surfaces
// store.ErrPreferencesNotFound.
func (p *preferencesService) GetMine(ctx context.Context, userID int64) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	prefs, err := p.preferencesRepository.FindByOwner(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, store.ErrPreferencesNotFound) {
		log.Err(err).Int64("user_id", userID).Msg("preferences lookup failed")
		return models.Preferences{}, fmt.Errorf("preferences lookup failed: %w", err)
	}

	// self-heal: materialise the defaults for this owner
	user, err := p.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("preferences owner lookup failed")
		return models.Preferences{}, fmt.Errorf("preferences owner lookup failed: %w", err)
	}

	created, err := p.preferencesRepository.Create(ctx, DefaultPreferences(userID, user.Username, user.Email))
	if err == nil {
		log.Info().Int64("user_id", userID).Msg("materialised default preferences")
		return created, nil
	}
	if !errors.Is(err, store.ErrPreferencesAlreadyExist) {
		log.Err(err).Int64("user_id", userID).Msg("default preferences creation failed")
		return models.Preferences{}, fmt.Errorf("default preferences creation failed: %w", err)
	}

	// lost the provisioning race; the document exists now
	prefs, err = p.preferencesRepository.FindByOwner(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("preferences re-read after create race failed")
		return models.Preferences{}, fmt.Errorf("preferences re-read after create race failed: %w", err)
	}

	return prefs, nil
}

// CreateMine explicitly creates the caller's document from a complete
// four-group payload. The validation wrapper guarantees all groups are
// present by the time this runs.
//
// Returns store.ErrPreferencesAlreadyExist when the owner already has a
// document.
func (p *preferencesService) CreateMine(ctx context.Context, userID int64, create models.PreferencesCreate) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	prefs := models.Preferences{
		UserID:        userID,
		Account:       *create.Account,
		Notifications: *create.Notifications,
		Theme:         *create.Theme,
		Privacy:       *create.Privacy,
	}

	created, err := p.preferencesRepository.Create(ctx, prefs)
	if err != nil {
		if errors.Is(err, store.ErrPreferencesAlreadyExist) {
			return models.Preferences{}, err
		}

		log.Err(err).Int64("user_id", userID).Msg("preferences creation failed")
		return models.Preferences{}, fmt.Errorf("preferences creation failed: %w", err)
	}

	return created, nil
}

// UpdateMine applies a group-level partial update: each supplied group
// replaces the stored group wholesale, omitted groups stay untouched.
//
// The read-through via GetMine self-heals a missing document first, so an
// update against a fresh account patches the defaults rather than failing.
func (p *preferencesService) UpdateMine(ctx context.Context, userID int64, update models.PreferencesUpdate) (models.Preferences, error) {
	log := logger.FromContext(ctx)

	if _, err := p.GetMine(ctx, userID); err != nil {
		return models.Preferences{}, err
	}

	saved, err := p.preferencesRepository.Save(ctx, userID, update)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("preferences update failed")
		return models.Preferences{}, fmt.Errorf("preferences update failed: %w", err)
	}

	return saved, nil
}

// DeleteMine removes the caller's document. A missing document surfaces as
// store.ErrPreferencesNotFound; deletion does not self-heal.
func (p *preferencesService) DeleteMine(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if err := p.preferencesRepository.Delete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrPreferencesNotFound) {
			return err
		}

		log.Err(err).Int64("user_id", userID).Msg("preferences deletion failed")
		return fmt.Errorf("preferences deletion failed: %w", err)
	}

	return nil
}

// GetSection projects one named sub-group out of the caller's document,
// self-healing like GetMine. Unknown section names yield ErrUnknownSection.
func (p *preferencesService) GetSection(ctx context.Context, userID int64, section string) (any, error) {
	prefs, err := p.GetMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch section {
	case models.SectionAccount:
		return prefs.Account, nil
	case models.SectionNotifications:
		return prefs.Notifications, nil
	case models.SectionTheme:
		return prefs.Theme, nil
	case models.SectionPrivacy:
		return prefs.Privacy, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
}
