package constants

import "time"

// Session and context keys
const (
	SessionCookieName  = "task_session"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyRequest  = "request_id"
)

// Pagination
const (
	MinPageSize      = 1
	DefaultPageSize  = 20
	MaxPageSize      = 100
	MaxTaskPageSize  = 50
	MaxAuditPageSize = 100
)

// Authentication
const (
	MinPasswordLength = 8
)

// Submission limits
const (
	MaxNotStartedReasonLength = 200
	MaxRejectionReasonLength  = 500
	MaxOverrideReasonLength   = 500
)

// Task limits
const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 2000
	MaxBulkTasks             = 100
)

// Templates
const (
	MaxTemplateNameLength = 100
)

// Submission feed
const (
	DefaultRecentSubmissions = 10
	MaxRecentSubmissions     = 500
)

// Settings
const (
	SettingsKey = "site_settings"
)

// Archival sweep defaults
const (
	DefaultArchiveInterval  = 5 * time.Minute
	DefaultArchiveBatchSize = 500
	DefaultTxTimeout        = 10 * time.Second
)
