// Package report handles saved reports: markdown files with YAML
// frontmatter describing a query (model, fields, filters, sort) and a
// free-form body documenting what the report is for.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/magpie/internal/atomicfile"
	"github.com/aidanlsb/magpie/internal/slugs"
)

// Report is one saved query.
type Report struct {
	Name   string   `yaml:"name"`
	Model  string   `yaml:"model"`
	Fields []string `yaml:"fields"`

	// Filters use the CLI syntax: "path=lookup:value" or "path=value".
	Filters []string `yaml:"filters,omitempty"`

	// Sort entries are "path" or "path:desc".
	Sort []string `yaml:"sort,omitempty"`

	Limit uint64 `yaml:"limit,omitempty"`

	// Body is the markdown description below the frontmatter.
	Body string `yaml:"-"`

	// Path is the file the report was loaded from.
	Path string `yaml:"-"`
}

// Validate checks the fields a report cannot run without.
func (r *Report) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("report has no name")
	}
	if strings.TrimSpace(r.Model) == "" {
		return fmt.Errorf("report %q has no model", r.Name)
	}
	if len(r.Fields) == 0 {
		return fmt.Errorf("report %q selects no fields", r.Name)
	}
	return nil
}

// Slug returns the filename-safe form of the report name.
func (r *Report) Slug() string {
	return slugs.ComponentSlug(r.Name)
}

// Load reads one report file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	front, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}

	var r Report
	if err := yaml.Unmarshal([]byte(front), &r); err != nil {
		return nil, fmt.Errorf("report %s: invalid frontmatter: %w", path, err)
	}
	r.Body = strings.TrimSpace(body)
	r.Path = path
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("report %s: %w", path, err)
	}
	return &r, nil
}

// List loads every report in dir, sorted by name. A missing directory is
// an empty list, not an error.
func List(dir string) ([]*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	var reports []*Report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		r, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports, nil
}

// Find locates a report by name or slug.
func Find(dir, name string) (*Report, error) {
	reports, err := List(dir)
	if err != nil {
		return nil, err
	}
	want := slugs.ComponentSlug(name)
	var names []string
	for _, r := range reports {
		if r.Name == name || r.Slug() == want {
			return r, nil
		}
		names = append(names, r.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no reports saved yet")
	}
	return nil, fmt.Errorf("report %q not found. Available reports: %s", name, strings.Join(names, ", "))
}

// Save writes the report into dir under its slugged name, returning the
// file path. Existing files with the same slug are overwritten.
func Save(dir string, r *Report) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	front, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n")
	if r.Body != "" {
		b.WriteString("\n")
		b.WriteString(r.Body)
		b.WriteString("\n")
	}

	path := filepath.Join(dir, r.Slug()+".md")
	if err := atomicfile.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// splitFrontmatter separates the YAML frontmatter block from the body. The
// file must open with "---" on the first line.
func splitFrontmatter(content string) (front, body string, err error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("missing frontmatter (file must start with ---)")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("unclosed frontmatter")
}
