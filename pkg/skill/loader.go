package skill

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Loader discovers declarative skill definitions from directories. Each skill
// is a directory containing a SKILL.md file whose YAML frontmatter declares
// metadata, triggers, parameters and the output contract; the markdown body
// becomes the skill's prompt template. Loaded skills have no implementation,
// so they are valid definitions but not executable.
type Loader struct {
	dirs []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDirs sets the directories to scan for skill definitions.
func WithDirs(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.dirs = dirs
	}
}

// NewLoader creates a skill loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load scans the configured directories and returns every parseable skill.
// Directories without a SKILL.md and files that fail to parse are skipped;
// a directory that cannot be read at all is not an error.
func (l *Loader) Load() ([]*Skill, error) {
	var skills []*Skill
	for _, dir := range l.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}
			s, err := LoadFile(filepath.Join(entryPath, skillFileName))
			if err != nil {
				continue
			}
			skills = append(skills, s)
		}
	}
	return skills, nil
}

// declaration mirrors the frontmatter shape of a SKILL.md file.
type declaration struct {
	Name         string   `mapstructure:"name"`
	Version      string   `mapstructure:"version"`
	Description  string   `mapstructure:"description"`
	Author       string   `mapstructure:"author"`
	CreatedAt    string   `mapstructure:"created_at"`
	UpdatedAt    string   `mapstructure:"updated_at"`
	Tags         []string `mapstructure:"tags"`
	Dependencies []string `mapstructure:"dependencies"`
	Triggers     []struct {
		Condition string         `mapstructure:"condition"`
		Pattern   string         `mapstructure:"pattern"`
		Priority  int            `mapstructure:"priority"`
		Context   map[string]any `mapstructure:"context"`
	} `mapstructure:"triggers"`
	Parameters []struct {
		Name        string `mapstructure:"name"`
		Type        string `mapstructure:"type"`
		Required    bool   `mapstructure:"required"`
		Default     any    `mapstructure:"default"`
		Description string `mapstructure:"description"`
	} `mapstructure:"parameters"`
	Output struct {
		Type   string            `mapstructure:"type"`
		Schema map[string]string `mapstructure:"schema"`
	} `mapstructure:"output"`
	RedFlags []string `mapstructure:"red_flags"`
}

// LoadFile parses one SKILL.md file into a skill definition.
func LoadFile(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	var decl declaration
	if err := mapstructure.Decode(metaData, &decl); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter")
	}
	if decl.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if decl.Version == "" {
		return nil, errors.New("skill version is required in frontmatter")
	}

	s := &Skill{
		Metadata: Metadata{
			Name:         decl.Name,
			Version:      decl.Version,
			Description:  decl.Description,
			Author:       decl.Author,
			CreatedAt:    parseTimestamp(decl.CreatedAt),
			UpdatedAt:    parseTimestamp(decl.UpdatedAt),
			Tags:         decl.Tags,
			Dependencies: decl.Dependencies,
		},
		Output: Output{
			Type:   decl.Output.Type,
			Schema: decl.Output.Schema,
		},
		PromptTemplate: extractBody(string(content)),
		RedFlags:       decl.RedFlags,
	}

	for _, t := range decl.Triggers {
		s.Triggers = append(s.Triggers, TriggerRule{
			Condition:           TriggerCondition(t.Condition),
			Pattern:             t.Pattern,
			Priority:            t.Priority,
			ContextRequirements: t.Context,
		})
	}
	for _, p := range decl.Parameters {
		s.Parameters = append(s.Parameters, Parameter{
			Name:        p.Name,
			Type:        p.Type,
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}

	return s, nil
}

func parseTimestamp(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// extractBody strips the YAML frontmatter block and returns the markdown body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	rest := content[3:]
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return content
	}
	body := rest[idx+4:]
	return strings.TrimLeft(body, "\r\n")
}
