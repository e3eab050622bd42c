package models

// User represents a registered identity.
//
// IDs are externally assigned (the mobile client registers with a stable
// device-scoped identifier), so the backend never generates them.
type User struct {
	// ID is the stable, externally assigned unique identifier.
	ID string

	// DisplayName is the name shown to other users.
	DisplayName string

	// FCMToken is the push-notification token for this user's device.
	// Empty when the user has never logged in from a push-capable client;
	// such users are silently skipped by notification fan-out.
	FCMToken string

	// CreatedAt is the Unix timestamp when the user registered.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last token update.
	UpdatedAt int64
}
