package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/siri/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultRef         = "HEAD"
	DefaultFactor      = 1.0
)

// DefaultExcludes are always ignored, even when they match a file pattern.
var DefaultExcludes = []string{
	"Cargo.lock", "go.sum", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "composer.lock", "uv.lock",
	".min.js", ".min.css",
}

// AuthorRaw holds one author entry from the YAML config file.
type AuthorRaw struct {
	Name    string   `mapstructure:"name"`
	Aliases []string `mapstructure:"aliases"`
	Factor  *float64 `mapstructure:"factor"`
}

// Config holds the runtime configuration for a scan.
// This struct is the "final, validated" config passed into every component.
type Config struct {
	RepoPath      string   // Absolute path to the repository root
	Ref           string   // Git reference to blame at
	PathFilters   []string // Repo-relative prefixes; empty means the whole tree
	Patterns      []schema.FilePattern
	Excludes      []string
	IncludeVendor bool

	Identities    []schema.AuthorIdentity
	UnknownPolicy schema.UnknownPolicy

	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Verbose     bool
	ResultLimit int
	Precision   int
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	PathArgs []string

	// --- Fields from rootCmd flags ---
	Repo           string `mapstructure:"repo"`
	Ref            string `mapstructure:"ref"`
	Code           bool   `mapstructure:"code"`
	Resource       bool   `mapstructure:"resource"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Detail         bool   `mapstructure:"detail"`
	Verbose        bool   `mapstructure:"verbose"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	UnknownPolicy  string `mapstructure:"unknown-policy"`
	Exclude        string `mapstructure:"exclude"`
	Vendor         bool   `mapstructure:"vendor"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields only found in the config file ---
	Authors       []AuthorRaw `mapstructure:"authors"`
	CodeFiles     []string    `mapstructure:"code-files"`
	ResourceFiles []string    `mapstructure:"resource-files"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.PathFilters = slices.Clone(c.PathFilters)
	clone.Patterns = slices.Clone(c.Patterns)
	clone.Excludes = slices.Clone(c.Excludes)
	if c.Identities != nil {
		clone.Identities = make([]schema.AuthorIdentity, len(c.Identities))
		for i, id := range c.Identities {
			id.Aliases = slices.Clone(id.Aliases)
			clone.Identities[i] = id
		}
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAuthors(cfg, input); err != nil {
		return err
	}
	processPatterns(cfg, input)
	processExcludes(cfg, input)
	if err := resolveRepoPathAndFilters(ctx, cfg, client, input); err != nil {
		return err
	}
	return nil
}

// RevalidateScan applies per-request overrides to a cloned, already validated config.
// Empty values keep what the config already has. The category is code, resource or all.
func RevalidateScan(ctx context.Context, cfg *Config, client GitClient, repoPath, category, policy string) error {
	if repoPath != "" {
		if err := resolveRepoPathAndFilters(ctx, cfg, client, &ConfigRawInput{Repo: repoPath}); err != nil {
			return err
		}
	}

	switch strings.ToLower(category) {
	case "", "all":
	case string(schema.CodeCategory), string(schema.ResourceCategory):
		want := schema.FileCategory(strings.ToLower(category))
		cfg.Patterns = slices.DeleteFunc(cfg.Patterns, func(p schema.FilePattern) bool {
			return p.Category != want
		})
		if len(cfg.Patterns) == 0 {
			return fmt.Errorf("no %s patterns are configured", want)
		}
	default:
		return fmt.Errorf("invalid category '%s'. must be code, resource, all", category)
	}

	if policy != "" {
		p := schema.UnknownPolicy(strings.ToLower(policy))
		if _, ok := schema.ValidUnknownPolicies[p]; !ok {
			return fmt.Errorf("invalid unknown-policy '%s'. must be bucket, drop, keep", policy)
		}
		cfg.UnknownPolicy = p
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "postgres://") && !strings.HasPrefix(connStr, "postgresql://") &&
			(!strings.Contains(connStr, "host=") || !strings.Contains(connStr, "dbname=")) {
			return fmt.Errorf("PostgreSQL connection string must be a postgres:// URL or contain 'host=' and 'dbname=' parameters")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Verbose = input.Verbose
	cfg.Width = input.Width
	cfg.IncludeVendor = input.Vendor

	cfg.Ref = strings.TrimSpace(input.Ref)
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 3. Unknown Policy Validation ---
	cfg.UnknownPolicy = schema.UnknownPolicy(strings.ToLower(input.UnknownPolicy))
	if cfg.UnknownPolicy == "" {
		cfg.UnknownPolicy = schema.BucketPolicy
	}
	if _, ok := schema.ValidUnknownPolicies[cfg.UnknownPolicy]; !ok {
		return fmt.Errorf("invalid unknown-policy '%s'. must be bucket, drop, keep", input.UnknownPolicy)
	}

	// --- 4. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// processAuthors turns the raw author entries into identities.
// Aliases are compared case-insensitively and may belong to one identity only.
func processAuthors(cfg *Config, input *ConfigRawInput) error {
	names := make(map[string]struct{}, len(input.Authors))
	owners := make(map[string]string)
	cfg.Identities = make([]schema.AuthorIdentity, 0, len(input.Authors))

	for i, raw := range input.Authors {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return fmt.Errorf("author #%d is missing a name", i+1)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("author %q is defined more than once", name)
		}
		names[name] = struct{}{}

		factor := DefaultFactor
		if raw.Factor != nil {
			factor = *raw.Factor
		}
		if factor < 0 {
			return fmt.Errorf("factor for author %q must not be negative (received %.2f)", name, factor)
		}

		aliases := make([]string, 0, len(raw.Aliases))
		for _, a := range raw.Aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			key := strings.ToLower(a)
			if other, taken := owners[key]; taken && other != name {
				return fmt.Errorf("alias %q is claimed by both %q and %q", a, other, name)
			}
			owners[key] = name
			aliases = append(aliases, a)
		}

		cfg.Identities = append(cfg.Identities, schema.AuthorIdentity{
			Name:    name,
			Aliases: aliases,
			Factor:  factor,
		})
	}
	return nil
}

// processPatterns builds the ordered pattern list. Code patterns come first,
// so a file matching both categories is counted as code.
func processPatterns(cfg *Config, input *ConfigRawInput) {
	wantCode, wantResource := input.Code, input.Resource
	if !wantCode && !wantResource {
		wantCode, wantResource = true, true
	}

	codeFiles := input.CodeFiles
	if len(codeFiles) == 0 {
		codeFiles = schema.DefaultCodePatterns
	}
	resourceFiles := input.ResourceFiles
	if len(resourceFiles) == 0 {
		resourceFiles = schema.DefaultResourcePatterns
	}

	cfg.Patterns = nil
	if wantCode {
		cfg.Patterns = append(cfg.Patterns, schema.Patterns(schema.CodeCategory, codeFiles)...)
	}
	if wantResource {
		cfg.Patterns = append(cfg.Patterns, schema.Patterns(schema.ResourceCategory, resourceFiles)...)
	}
}

// processExcludes merges the default excludes with the user-provided ones.
func processExcludes(cfg *Config, input *ConfigRawInput) {
	cfg.Excludes = slices.Clone(DefaultExcludes)
	if input.Exclude == "" {
		return
	}
	for p := range strings.SplitSeq(input.Exclude, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Excludes = append(cfg.Excludes, p)
		}
	}
}

// resolveRepoPathAndFilters resolves the Git repository root and the path filters.
// A --repo path that points inside the repository becomes an implicit filter.
func resolveRepoPathAndFilters(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.Repo
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, statErr := os.Stat(absSearchPath)
	if statErr != nil {
		return fmt.Errorf("%w: %s does not exist", ErrNotFound, searchPath)
	}
	gitContextPath := absSearchPath
	if !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		if errors.Is(err, ErrGitMissing) {
			return err
		}
		return fmt.Errorf("%w: %s is not inside a Git checkout: %v", ErrNotFound, searchPath, err)
	}
	cfg.RepoPath = gitRoot

	cfg.PathFilters = nil
	for _, arg := range input.PathArgs {
		filter, err := NormalizeRepoPath(gitRoot, arg)
		if err != nil {
			return err
		}
		cfg.PathFilters = append(cfg.PathFilters, filter)
	}
	if len(cfg.PathFilters) > 0 {
		return nil
	}

	if absSearchPath != gitRoot {
		relativePath, err := filepath.Rel(gitRoot, absSearchPath)
		if err != nil {
			return err
		}
		if relativePath != "." {
			filter := filepath.ToSlash(relativePath)
			if info.IsDir() {
				filter += "/"
			}
			cfg.PathFilters = []string{filter}
		}
	}

	return nil
}
