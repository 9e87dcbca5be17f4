// Package testutil provides reusable test utilities for magpie
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/magpie/internal/store"
)

// TestProject builds a temporary magpie project for testing: a
// magpie.yaml, a models file, and an optional seeded SQLite database.
type TestProject struct {
	Path   string
	t      *testing.T
	models string
	files  map[string]string
}

// NewTestProject creates a new test project builder. Call Build() to
// create the actual project directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		files: make(map[string]string),
	}
}

// WithModels sets the models.yaml content for the project.
func (p *TestProject) WithModels(yaml string) *TestProject {
	p.models = yaml
	return p
}

// WithFile adds a file to the project. The path is relative to the
// project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[path] = content
	return p
}

// WithReport adds a saved report file under the reports directory.
func (p *TestProject) WithReport(name, content string) *TestProject {
	p.files[filepath.Join("reports", name+".md")] = content
	return p
}

// Build creates the project directory and all configured files. A
// magpie.yaml pointing at a project-local SQLite database is written
// unless the builder supplied its own.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()

	if _, ok := p.files["magpie.yaml"]; !ok {
		p.files["magpie.yaml"] = fmt.Sprintf(
			"connection:\n  driver: sqlite\n  dsn: %s\n",
			filepath.Join(p.Path, "data.db"),
		)
	}
	if p.models != "" {
		p.files["models.yaml"] = p.models
	}

	for path, content := range p.files {
		p.writeFile(path, content)
	}

	if err := os.MkdirAll(filepath.Join(p.Path, ".magpie"), 0755); err != nil {
		p.t.Fatalf("failed to create state dir: %v", err)
	}

	return p
}

// SeedSQL executes DDL/DML statements against the project's SQLite
// database, creating it if needed.
func (p *TestProject) SeedSQL(stmts ...string) *TestProject {
	p.t.Helper()

	ctx := context.Background()
	db, err := store.Open(ctx, store.SQLite, filepath.Join(p.Path, "data.db"))
	if err != nil {
		p.t.Fatalf("failed to open seed database: %v", err)
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.SQL().ExecContext(ctx, stmt); err != nil {
			p.t.Fatalf("failed to seed database: %v\nstatement: %s", err, stmt)
		}
	}
	return p
}

// ReadFile reads a file from the project, failing the test on error.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(filepath.Join(p.Path, relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// AssertFileExists fails the test if the file does not exist.
func (p *TestProject) AssertFileExists(relPath string) {
	p.t.Helper()
	if _, err := os.Stat(filepath.Join(p.Path, relPath)); os.IsNotExist(err) {
		p.t.Errorf("expected file to exist: %s", relPath)
	}
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}
