package store

// Persisted key names. These are part of the on-disk format: renaming any of
// them silently drops the user's data on upgrade.
const (
	KeyChecklist  = "breach-tracker-checklist"
	KeyNotes      = "breach-tracker-notes"
	KeyTheme      = "breach-tracker-theme"
	KeyCategories = "breach-tracker-categories"
	KeyHeader     = "breach-tracker-header"
	KeyWelcome    = "breach-tracker-welcome"
)
