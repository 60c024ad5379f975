package service

import (
	"context"
	"net/mail"

	"github.com/MKhiriev/go-user-prefs/models"
)

// Enum membership sets for the string-valued preference fields. A value
// outside its set is rejected with a per-field message.
var (
	validFrequencies = map[string]struct{}{
		"immediate": {}, "hourly": {}, "daily": {}, "weekly": {}, "never": {},
	}
	validColorSchemes = map[string]struct{}{
		"light": {}, "dark": {}, "auto": {},
	}
	validFontSizes = map[string]struct{}{
		"small": {}, "medium": {}, "large": {}, "extra-large": {},
	}
	validLayouts = map[string]struct{}{
		"standard": {}, "compact": {}, "spacious": {},
	}
	validVisibilities = map[string]struct{}{
		"public": {}, "friends": {}, "private": {},
	}
)

// PreferencesValidationService decorates a PreferencesService with request
// validation: explicit creation requires all four groups, and every supplied
// group is checked for enum membership and required fields before the inner
// service runs. Reads and deletes pass through untouched.
type PreferencesValidationService struct {
	inner PreferencesService
}

// NewPreferencesValidationService constructs the validation decorator.
func NewPreferencesValidationService() PreferencesServiceWrapper {
	return &PreferencesValidationService{}
}

// Wrap implements PreferencesServiceWrapper.
func (v *PreferencesValidationService) Wrap(inner PreferencesService) PreferencesService {
	v.inner = inner
	return v
}

// GetMine passes through to the inner service.
func (v *PreferencesValidationService) GetMine(ctx context.Context, userID int64) (models.Preferences, error) {
	return v.inner.GetMine(ctx, userID)
}

// CreateMine requires a complete four-group payload and validates each
// group before delegating.
func (v *PreferencesValidationService) CreateMine(ctx context.Context, userID int64, create models.PreferencesCreate) (models.Preferences, error) {
	fieldErrors := models.ValidationErrors{}

	if create.Account == nil {
		fieldErrors["account"] = "This field is required."
	} else {
		validateAccount(*create.Account, fieldErrors)
	}
	if create.Notifications == nil {
		fieldErrors["notifications"] = "This field is required."
	} else {
		validateNotifications(*create.Notifications, fieldErrors)
	}
	if create.Theme == nil {
		fieldErrors["theme"] = "This field is required."
	} else {
		validateTheme(*create.Theme, fieldErrors)
	}
	if create.Privacy == nil {
		fieldErrors["privacy"] = "This field is required."
	} else {
		validatePrivacy(*create.Privacy, fieldErrors)
	}

	if len(fieldErrors) > 0 {
		return models.Preferences{}, &ValidationError{Errors: fieldErrors}
	}

	return v.inner.CreateMine(ctx, userID, create)
}

// UpdateMine validates only the supplied groups; nil groups carry no
// payload and need no checks.
func (v *PreferencesValidationService) UpdateMine(ctx context.Context, userID int64, update models.PreferencesUpdate) (models.Preferences, error) {
	fieldErrors := models.ValidationErrors{}

	if update.Account != nil {
		validateAccount(*update.Account, fieldErrors)
	}
	if update.Notifications != nil {
		validateNotifications(*update.Notifications, fieldErrors)
	}
	if update.Theme != nil {
		validateTheme(*update.Theme, fieldErrors)
	}
	if update.Privacy != nil {
		validatePrivacy(*update.Privacy, fieldErrors)
	}

	if len(fieldErrors) > 0 {
		return models.Preferences{}, &ValidationError{Errors: fieldErrors}
	}

	return v.inner.UpdateMine(ctx, userID, update)
}

// DeleteMine passes through to the inner service.
func (v *PreferencesValidationService) DeleteMine(ctx context.Context, userID int64) error {
	return v.inner.DeleteMine(ctx, userID)
}

// GetSection passes through to the inner service.
func (v *PreferencesValidationService) GetSection(ctx context.Context, userID int64, section string) (any, error) {
	return v.inner.GetSection(ctx, userID, section)
}

func validateAccount(account models.Account, fieldErrors models.ValidationErrors) {
	if account.Username == "" {
		fieldErrors["account.username"] = "This field is required."
	} else if len(account.Username) > 20 {
		fieldErrors["account.username"] = "Ensure this field has no more than 20 characters."
	}

	if account.Email == "" {
		fieldErrors["account.email"] = "This field is required."
	} else if _, err := mail.ParseAddress(account.Email); err != nil {
		fieldErrors["account.email"] = "Enter a valid email address."
	}
}

func validateNotifications(notifications models.Notifications, fieldErrors models.ValidationErrors) {
	if _, ok := validFrequencies[notifications.Frequency]; !ok {
		fieldErrors["notifications.frequency"] = "Value must be one of: immediate, hourly, daily, weekly, never."
	}
}

func validateTheme(theme models.Theme, fieldErrors models.ValidationErrors) {
	if _, ok := validColorSchemes[theme.ColorScheme]; !ok {
		fieldErrors["theme.colorScheme"] = "Value must be one of: light, dark, auto."
	}
	if _, ok := validFontSizes[theme.FontSize]; !ok {
		fieldErrors["theme.fontSize"] = "Value must be one of: small, medium, large, extra-large."
	}
	if _, ok := validLayouts[theme.Layout]; !ok {
		fieldErrors["theme.layout"] = "Value must be one of: standard, compact, spacious."
	}
}

func validatePrivacy(privacy models.Privacy, fieldErrors models.ValidationErrors) {
	if _, ok := validVisibilities[privacy.ProfileVisibility]; !ok {
		fieldErrors["privacy.profileVisibility"] = "Value must be one of: public, friends, private."
	}
}
