package service

import "github.com/MKhiriev/go-user-prefs/models"

// DefaultPreferences materialises the default preferences document for a
// user. This is the only place the default tuple is defined; registration
// and the self-healing read both build their documents here.
//
// The account group is seeded from the user's identity; first name, last
// name, and phone start empty.
func DefaultPreferences(userID int64, username, email string) models.Preferences {
	return models.Preferences{
		UserID: userID,
		Account: models.Account{
			Username: username,
			Email:    email,
		},
		Notifications: models.Notifications{
			EmailNotifications: true,
			PushNotifications:  true,
			SMSNotifications:   false,
			Frequency:          "daily",
			MarketingEmails:    false,
			SecurityAlerts:     true,
		},
		Theme: models.Theme{
			ColorScheme: "light",
			FontSize:    "medium",
			Layout:      "standard",
			Animations:  true,
			CompactMode: false,
		},
		Privacy: models.Privacy{
			ProfileVisibility: "friends",
			DataSharing:       false,
			AnalyticsTracking: true,
			LocationSharing:   false,
			ActivityStatus:    true,
			SearchableProfile: true,
		},
	}
}
