package internal

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"gopkg.in/yaml.v3"
)

// StarterConfigFile is the file name written by `siri init`.
const StarterConfigFile = ".siri.yaml"

// DefaultStarterAuthors caps how many committers are seeded into a starter config.
const DefaultStarterAuthors = 20

// ErrConfigExists is returned when a starter config would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// StarterConfig mirrors the keys of the .siri.yaml config file.
type StarterConfig struct {
	Authors       []schema.AuthorIdentity `yaml:"authors"`
	CodeFiles     []string                `yaml:"code-files"`
	ResourceFiles []string                `yaml:"resource-files"`
	UnknownPolicy string                  `yaml:"unknown-policy"`
	StoreBackend  string                  `yaml:"store-backend"`
}

// NewStarterConfig builds a starter config for the repository. Authors are
// seeded from the commit history at ref, most active first. When the history
// cannot be read a single placeholder author is used instead.
func NewStarterConfig(ctx context.Context, client contract.GitClient, repoPath, ref string, maxAuthors int) StarterConfig {
	cfg := StarterConfig{
		CodeFiles:     slices.Clone(schema.DefaultCodePatterns),
		ResourceFiles: slices.Clone(schema.DefaultResourcePatterns),
		UnknownPolicy: string(schema.BucketPolicy),
		StoreBackend:  string(schema.NoneBackend),
	}

	authors, err := committers(ctx, client, repoPath, ref)
	if err != nil || len(authors) == 0 {
		cfg.Authors = []schema.AuthorIdentity{{
			Name:    "Jane Doe",
			Aliases: []string{"jane@example.com"},
			Factor:  contract.DefaultFactor,
		}}
		return cfg
	}
	if maxAuthors > 0 && len(authors) > maxAuthors {
		authors = authors[:maxAuthors]
	}
	cfg.Authors = authors
	return cfg
}

// committers groups commit authors by email and orders them by commit count.
func committers(ctx context.Context, client contract.GitClient, repoPath, ref string) ([]schema.AuthorIdentity, error) {
	out, err := client.Run(ctx, repoPath, "log", "--format=%aN%x09%aE", ref)
	if err != nil {
		return nil, err
	}

	type committer struct {
		identity schema.AuthorIdentity
		commits  int
		order    int
	}
	byEmail := make(map[string]*committer)
	for line := range strings.Lines(string(out)) {
		name, email, ok := strings.Cut(strings.TrimRight(line, "\r\n"), "\t")
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		if !ok || email == "" {
			continue
		}
		key := strings.ToLower(email)
		c, seen := byEmail[key]
		if !seen {
			c = &committer{
				identity: schema.AuthorIdentity{Name: name, Aliases: []string{email}, Factor: contract.DefaultFactor},
				order:    len(byEmail),
			}
			if name == "" {
				c.identity.Name = email
			}
			byEmail[key] = c
		}
		c.commits++
	}

	all := make([]*committer, 0, len(byEmail))
	for _, c := range byEmail {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b *committer) int {
		return cmp.Or(cmp.Compare(b.commits, a.commits), cmp.Compare(a.order, b.order))
	})

	// Two emails under the same name collapse into one identity.
	var result []schema.AuthorIdentity
	byName := make(map[string]int)
	for _, c := range all {
		if i, dup := byName[c.identity.Name]; dup {
			result[i].Aliases = append(result[i].Aliases, c.identity.Aliases...)
			continue
		}
		byName[c.identity.Name] = len(result)
		result = append(result, c.identity)
	}
	return result, nil
}

// Marshal renders the config as YAML with a short header comment.
func (c StarterConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# SIRI configuration. Authors listed here count as known;\n")
	buf.WriteString("# factor weights their code in the SIRI percentage.\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode starter config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteStarterConfig writes the config to path. An existing file is only
// replaced when force is set.
func WriteStarterConfig(path string, cfg StarterConfig, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
