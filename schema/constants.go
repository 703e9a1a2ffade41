package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the score store.
	DatabaseBackend string

	// FileCategory represents the pattern category a file matched.
	FileCategory string

	// UnknownPolicy represents how lines by unknown authors are tallied.
	UnknownPolicy string

	// LineKind represents the classification of a single blamed line.
	LineKind string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All file categories supported.
const (
	CodeCategory     FileCategory = "code"
	ResourceCategory FileCategory = "resource"
)

// All unknown-author policies supported.
const (
	BucketPolicy UnknownPolicy = "bucket" // default
	DropPolicy   UnknownPolicy = "drop"
	KeepPolicy   UnknownPolicy = "keep"
)

// All line kinds.
const (
	CodeLine    LineKind = "code"
	CommentLine LineKind = "comment"
	BlankLine   LineKind = "blank"
)

// UnknownAuthor is the tally key for lines whose author is not configured.
const UnknownAuthor = "(unknown)"

// TotalScope is the scope name used for repository-wide rows in tabular output.
const TotalScope = "total"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidUnknownPolicies lists all valid unknown-author policies.
var ValidUnknownPolicies = map[UnknownPolicy]struct{}{
	BucketPolicy: {},
	DropPolicy:   {},
	KeepPolicy:   {},
}

// DefaultCodePatterns is used when the configuration provides no code patterns.
var DefaultCodePatterns = []string{
	".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".kt", ".swift",
	".m", ".mm", ".h", ".c", ".cc", ".cpp", ".hpp", ".cs", ".rb", ".rs",
	".php", ".scala", ".sh",
}

// DefaultResourcePatterns is used when the configuration provides no resource patterns.
var DefaultResourcePatterns = []string{
	".json", ".yaml", ".yml", ".xml", ".xib", ".storyboard", ".strings",
	".plist", ".html", ".css", ".scss", ".sql", ".proto",
}
