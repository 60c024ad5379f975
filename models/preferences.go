package models

import "time"

// Account groups the identity-ish fields of a preferences record.
// It is a denormalized copy of the user's registration data and is
// independently editable after creation.
type Account struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// Notifications groups delivery-channel toggles and the digest frequency.
// Frequency must be one of: immediate, hourly, daily, weekly, never.
type Notifications struct {
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	Frequency          string `json:"frequency"`
	MarketingEmails    bool   `json:"marketingEmails"`
	SecurityAlerts     bool   `json:"securityAlerts"`
}

// Theme groups visual appearance settings.
// ColorScheme is one of light/dark/auto, FontSize one of small/medium/
// large/extra-large, Layout one of standard/compact/spacious.
type Theme struct {
	ColorScheme string `json:"colorScheme"`
	FontSize    string `json:"fontSize"`
	Layout      string `json:"layout"`
	Animations  bool   `json:"animations"`
	CompactMode bool   `json:"compactMode"`
}

// Privacy groups visibility and data-usage flags.
// ProfileVisibility is one of public/friends/private.
type Privacy struct {
	ProfileVisibility string `json:"profileVisibility"`
	DataSharing       bool   `json:"dataSharing"`
	AnalyticsTracking bool   `json:"analyticsTracking"`
	LocationSharing   bool   `json:"locationSharing"`
	ActivityStatus    bool   `json:"activityStatus"`
	SearchableProfile bool   `json:"searchableProfile"`
}

// Preferences is the per-user settings record. Each user owns at most one
// record; the four sub-groups are always persisted together as a single row.
//
// The JSON tags define the wire format of the API: the nested camelCase
// document is the single external representation, and marshalling and
// unmarshalling are mutual inverses for every field.
type Preferences struct {
	// UserID identifies the owning user. Immutable after creation and
	// never taken from a client-supplied value.
	UserID int64 `json:"-"`

	Account       Account       `json:"account"`
	Notifications Notifications `json:"notifications"`
	Theme         Theme         `json:"theme"`
	Privacy       Privacy       `json:"privacy"`

	// CreatedAt is set once when the row is inserted.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed by the store on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the Preferences model.
func (p Preferences) TableName() string {
	return "preferences"
}

// PreferencesUpdate is a partial preferences document. A nil sub-group means
// "leave the stored group untouched"; a non-nil sub-group wholesale replaces
// the stored one (group-level replace, not a per-field merge).
type PreferencesUpdate struct {
	Account       *Account       `json:"account,omitempty"`
	Notifications *Notifications `json:"notifications,omitempty"`
	Theme         *Theme         `json:"theme,omitempty"`
	Privacy       *Privacy       `json:"privacy,omitempty"`
}

// PreferencesCreate is a full preferences document supplied on explicit
// creation. All four sub-groups are required; creation never fills in
// defaults for omitted groups.
type PreferencesCreate struct {
	Account       *Account       `json:"account"`
	Notifications *Notifications `json:"notifications"`
	Theme         *Theme         `json:"theme"`
	Privacy       *Privacy       `json:"privacy"`
}

// Section names addressable via GET /preferences/{section}.
const (
	SectionAccount       = "account"
	SectionNotifications = "notifications"
	SectionTheme         = "theme"
	SectionPrivacy       = "privacy"
)
