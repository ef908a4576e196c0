package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-DateSelect/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go DateSelect"
	AppID             = "com.github.tartampluch.go-dateselect"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvFileName       = ".env"
	KeyringService    = AppID
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagLanguage     = "lang"
	FlagMinDate      = "min"
	FlagMaxDate      = "max"
	FlagPort         = "port"
	FlagImport       = "import"
	FlagImportUser   = "user"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescLanguage = "Language of month names and placeholders (en, tr)"
	FlagDescMinDate  = "Earliest selectable date (YYYY-MM-DD)"
	FlagDescMaxDate  = "Latest selectable date (YYYY-MM-DD)"
	FlagDescPort     = "Local port publishing the selected date"
	FlagDescImport   = "vCard file or http(s) URL whose BDAY seeds the selection"
	FlagDescUser     = "Basic auth user for -import URLs; the password is read from the OS keyring"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvLanguage = "DATESELECT_LANGUAGE"
	EnvMinDate  = "DATESELECT_MIN_DATE"
	EnvMaxDate  = "DATESELECT_MAX_DATE"
	EnvPort     = "DATESELECT_PORT"

	EnvImportUser     = "DATESELECT_IMPORT_USER"
	EnvImportPassword = "DATESELECT_IMPORT_PASSWORD"
)

// -----------------------------------------------------------------------------
// Calendar Defaults & Business Logic
// -----------------------------------------------------------------------------

const (
	// DefaultMinYear is the oldest selectable year when no minimum bound is set.
	DefaultMinYear = 1900

	MonthsPerYear = 12
	FirstMonth    = 0  // January, zero-indexed
	LastMonth     = 11 // December, zero-indexed
	FirstDay      = 1

	// NullSentinel is the value an unset UI select reports.
	NullSentinel = "null"

	DefaultLanguage = "en"
	DefaultPort     = "18081"
	DefaultLeapYear = 2000 // Leap year fallback for dates like --02-29

	// Bound years outside this range are rejected; the year list is built eagerly.
	MinBoundYear = 1
	MaxBoundYear = 9999
)

// SupportedLanguages defines the languages shipped in the embedded locale bundle (ISO 639-1).
var SupportedLanguages = []string{"en", "tr"}

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	WindowWidth         = 420
	LayoutColumnsTriple = 3
	ValueDisplayFormat  = "2006-01-02"
	ValueIncomplete     = "-"

	// PrefLanguage is the fyne preference key remembering the chosen language.
	PrefLanguage = "language"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyMonthPrefix = "month_" // month_0 .. month_11
	TKeyLabelDay    = "label_day"
	TKeyLabelMonth  = "label_month"
	TKeyLabelYear   = "label_year"
	TKeyWinTitle    = "win_title"
	TKeyLblLanguage = "lbl_language"
	TKeyLblSelected = "lbl_selected"
	TKeyEvtSummary  = "event_summary"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go DateSelect//Exchange//EN"
	ICalCalName = "Selected Date"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "godateselect"
	ICalRRule   = "FREQ=YEARLY"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRRule      = "RRULE"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	FormatUID       = "%04d%02d%02d@%s"
	FallbackSummary = "Selected date"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and bound settings
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	JSONKeyYear  = "year"
	JSONKeyMonth = "month"
	JSONKeyDay   = "day"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "5"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 1 * 1024 * 1024 // 1MB, a single contact
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteSelectionJSON  = "/selection.json"
	RouteSelectionICS   = "/selection.ics"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType  = "Content-Type"
	HeaderCacheControl = "Cache-Control"
	HeaderETag         = "ETag"
	HeaderRetryAfter   = "Retry-After"
	HeaderAllow        = "Allow"
	HeaderXContentType = "X-Content-Type-Options"
	HeaderUserAgent    = "User-Agent"
	HeaderIfNoneMatch  = "If-None-Match"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidInput      = "invalid input: expected a {year, month, day} record of null-or-integer fields"
	ErrInvalidComparison = "invalid comparison: both dates must be complete"
	ErrIncompleteBound   = "bound must have year, month and day set"
	ErrInvertedBounds    = "minimum date is after maximum date"
	ErrBoundYearRange    = "bound year out of range"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrVCardParse        = "failed to parse vCard stream"
	ErrNoBirthday        = "vCard has no BDAY property"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrJSONEncode        = "failed to encode selection"
	ErrDateParse         = "unable to parse date"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrLocalesAccess     = "failed to access locales"
	ErrLocaleLoad        = "failed to load locale file"
	ErrLocaleEmpty       = "no locale file could be loaded"
	ErrSettings          = "failed to decode environment settings"
	ErrImport            = "failed to import birthday"
	ErrKeyringStore      = "failed to store password in keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgIncomplete   = "No complete date selected yet."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgCtxCancel     = "Context cancelled, shutting down UI"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Selection cache updated"
	MsgCacheCleared  = "Selection cache cleared"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgYearsLoaded   = "Year list recomputed"
	MsgMonthsLoaded  = "Month list recomputed"
	MsgDaysLoaded    = "Day list recomputed"
	MsgFieldCleared  = "Selection field cleared by cascade"
	MsgRangeClamped  = "Minimum year exceeds maximum year, clamping"
	MsgValueWritten  = "Value written"
	MsgBoundChanged  = "Date bound changed"
	MsgBoundsIgnored = "Ignoring invalid initial date bounds"
	MsgPassFail      = "Failed to retrieve password from keyring"
	MsgPassStored    = "Password stored in keyring"
	MsgImported      = "Birthday imported"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgEnvFileMissed = "No .env file loaded"
	MsgSelectChanged = "Selection changed from UI"
	MsgLangChanged   = "Display language changed"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyField     = "field"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyMinYear   = "min_year"
	LogKeyMaxYear   = "max_year"
	LogKeyBound     = "bound"
	LogKeyDate      = "date"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeySource    = "source"
	LogKeyUser      = "user"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// Field names used in logs.
const (
	FieldYear  = "year"
	FieldMonth = "month"
	FieldDay   = "day"
	BoundMin   = "min"
	BoundMax   = "max"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI       = "ui"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompExchange = "exchange"
	CompMain     = "main"
	CompLocale   = "locale"
	CompConfig   = "config"
)
