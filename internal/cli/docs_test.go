package cli

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	builtindocs "github.com/aidanlsb/magpie/docs"
	"github.com/aidanlsb/magpie/internal/ui"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

func testDocsFS() fstest.MapFS {
	return fstest.MapFS{
		"index.yaml": &fstest.MapFile{Data: []byte(`sections:
  reference:
    title: Reference
    topics:
      lookups:
        path: lookups.md
  guide:
    title: User Guide
    topics:
      getting-started:
        title: Start Here
        path: getting-started.md
      filters:
        path: filters.md
`)},
		"guide/getting-started.md": &fstest.MapFile{Data: []byte("# Getting Started\n\nDeclare entities, then query.\n")},
		"guide/filters.md":         &fstest.MapFile{Data: []byte("# Filtering Results\n\nUse path=lookup:value filters.\n")},
		"reference/lookups.md":     &fstest.MapFile{Data: []byte("# Lookups\n\nequals, contains, gte and friends.\n")},
	}
}

func TestListDocsSectionsFSLoadsEmbeddedDocs(t *testing.T) {
	t.Parallel()

	sections, err := listDocsSectionsFS(builtindocs.FS, ".")
	if err != nil {
		t.Fatalf("listDocsSectionsFS() error = %v", err)
	}
	if len(sections) == 0 {
		t.Fatalf("expected embedded docs sections, got none")
	}

	var ids []string
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	for _, expected := range []string{"guide", "reference"} {
		if !slices.Contains(ids, expected) {
			t.Fatalf("expected section %q in %v", expected, ids)
		}
	}
}

func TestListDocsSectionsKeepsIndexOrderAndOverrides(t *testing.T) {
	t.Parallel()

	sections, err := listDocsSectionsFS(testDocsFS(), ".")
	if err != nil {
		t.Fatalf("listDocsSectionsFS() error = %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	if sections[0].ID != "reference" || sections[0].Title != "Reference" {
		t.Fatalf("first section = %+v, want reference/Reference", sections[0])
	}
	if sections[1].ID != "guide" || sections[1].Title != "User Guide" {
		t.Fatalf("second section = %+v, want guide/User Guide", sections[1])
	}
	if sections[1].TopicCount != 2 {
		t.Fatalf("guide topic count = %d, want 2", sections[1].TopicCount)
	}
}

func TestListDocsTopicsTitlesAndOrder(t *testing.T) {
	t.Parallel()

	topics, err := listDocsTopicsFS(testDocsFS(), ".", "guide")
	if err != nil {
		t.Fatalf("listDocsTopicsFS() error = %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 guide topics, got %d", len(topics))
	}

	// Index title override wins; otherwise the first markdown H1.
	if topics[0].ID != "getting-started" || topics[0].Title != "Start Here" {
		t.Fatalf("first topic = %+v, want getting-started/Start Here", topics[0])
	}
	if topics[1].ID != "filters" || topics[1].Title != "Filtering Results" {
		t.Fatalf("second topic = %+v, want filters/Filtering Results", topics[1])
	}
	if topics[1].Path != "docs/guide/filters.md" {
		t.Fatalf("topic path = %q", topics[1].Path)
	}
}

func TestListDocsSectionsFailsWithoutIndex(t *testing.T) {
	t.Parallel()

	docsFS := fstest.MapFS{
		"guide/getting-started.md": &fstest.MapFile{Data: []byte("# Getting Started\n")},
	}

	_, err := listDocsSectionsFS(docsFS, ".")
	if err == nil {
		t.Fatal("expected listDocsSectionsFS() to fail without docs index")
	}
	if !strings.Contains(err.Error(), "docs index not found") {
		t.Fatalf("error = %v, want missing docs index message", err)
	}
}

func TestListDocsSectionsFailsForMissingIndexedSection(t *testing.T) {
	t.Parallel()

	docsFS := fstest.MapFS{
		"index.yaml": &fstest.MapFile{Data: []byte(`sections:
  missing:
    topics:
      intro:
        path: intro.md
`)},
	}

	_, err := listDocsSectionsFS(docsFS, ".")
	if err == nil {
		t.Fatal("expected listDocsSectionsFS() to fail for a missing section directory")
	}
	if !strings.Contains(err.Error(), `section "missing" not found`) {
		t.Fatalf("error = %v, want missing section message", err)
	}
}

func TestListDocsTopicsFailsForMissingIndexedFile(t *testing.T) {
	t.Parallel()

	docsFS := fstest.MapFS{
		"index.yaml": &fstest.MapFile{Data: []byte(`sections:
  guide:
    topics:
      missing-topic:
        path: missing.md
`)},
		"guide/getting-started.md": &fstest.MapFile{Data: []byte("# Getting Started\n")},
	}

	_, err := listDocsTopicsFS(docsFS, ".", "guide")
	if err == nil {
		t.Fatal("expected listDocsTopicsFS() to fail for a missing topic file")
	}
	if !strings.Contains(err.Error(), `points to missing file "missing.md"`) {
		t.Fatalf("error = %v, want missing topic file message", err)
	}
}

func TestNormalizeDocsPathSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "saved-reports", want: "saved-reports"},
		{name: "underscore", in: "saved_reports", want: "saved-reports"},
		{name: "spaces", in: "Saved Reports", want: "saved-reports"},
		{name: "nested", in: "guide/Saved Reports", want: "guide/saved-reports"},
		{name: "windows separators", in: `guide\Saved Reports`, want: "guide/saved-reports"},
		{name: "extra separators", in: "  guide//saved_reports  ", want: "guide/saved-reports"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeDocsPathSlug(tc.in); got != tc.want {
				t.Fatalf("normalizeDocsPathSlug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSearchDocsHonorsSectionFilterAndLimit(t *testing.T) {
	t.Parallel()

	docsFS := testDocsFS()

	matches, err := searchDocsFS(docsFS, ".", "query", "", 10)
	if err != nil {
		t.Fatalf("searchDocsFS() error = %v", err)
	}
	if len(matches) != 1 || matches[0].Topic != "getting-started" {
		t.Fatalf("matches = %+v, want one hit in getting-started", matches)
	}
	if matches[0].Line != 3 {
		t.Fatalf("match line = %d, want 3", matches[0].Line)
	}

	// The filter word appears in guide/filters.md only.
	if matches, err = searchDocsFS(docsFS, ".", "filters", "reference", 10); err != nil {
		t.Fatalf("searchDocsFS() error = %v", err)
	} else if len(matches) != 0 {
		t.Fatalf("expected no reference matches, got %+v", matches)
	}

	// "e" appears on many lines; the limit caps the result.
	if matches, err = searchDocsFS(docsFS, ".", "e", "", 2); err != nil {
		t.Fatalf("searchDocsFS() error = %v", err)
	} else if len(matches) != 2 {
		t.Fatalf("expected limit of 2 matches, got %d", len(matches))
	}

	if _, err := searchDocsFS(docsFS, ".", "query", "nope", 10); err == nil || !strings.Contains(err.Error(), "unknown section") {
		t.Fatalf("error = %v, want unknown section", err)
	}
}

func TestOutputDocsSectionsTextListsSectionCommands(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() {
		jsonOutput = prevJSON
	})
	jsonOutput = false

	out := captureStdout(t, func() {
		err := outputDocsSections([]docsSectionView{
			{ID: "guide", Title: "User Guide", TopicCount: 5},
			{ID: "reference", Title: "Reference", TopicCount: 1},
		})
		if err != nil {
			t.Fatalf("outputDocsSections() error = %v", err)
		}
	})

	wantSnippets := []string{
		"Documentation section commands:",
		"mgp docs guide",
		"User Guide (5 topics)",
		"mgp docs reference",
		"Reference (1 topic)",
		"General docs commands:",
		"mgp docs list",
		"mgp docs <section>",
		"mgp docs <section> <topic>",
		"mgp docs search <query>",
		"mgp help <command>",
	}
	for _, snippet := range wantSnippets {
		if !strings.Contains(out, snippet) {
			t.Fatalf("output missing %q\nfull output:\n%s", snippet, out)
		}
	}
}

func TestOutputDocsTopicsTextListsTopicCommands(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() {
		jsonOutput = prevJSON
	})
	jsonOutput = false

	section := docsSectionView{ID: "reference", Title: "Reference", TopicCount: 2}
	out := captureStdout(t, func() {
		err := outputDocsTopics(section, []docsTopicRecord{
			{Section: "reference", ID: "lookups", Title: "Lookups"},
			{Section: "reference", ID: "aggregates", Title: "Aggregates"},
		})
		if err != nil {
			t.Fatalf("outputDocsTopics() error = %v", err)
		}
	})

	wantSnippets := []string{
		"Documentation topic commands for Reference [reference]:",
		"mgp docs reference lookups",
		"Lookups",
		"mgp docs reference aggregates",
		"Aggregates",
		"General docs commands:",
		"mgp docs reference",
		"mgp docs search <query> --section reference",
		"mgp docs list",
	}
	for _, snippet := range wantSnippets {
		if !strings.Contains(out, snippet) {
			t.Fatalf("output missing %q\nfull output:\n%s", snippet, out)
		}
	}
}

func TestOutputDocsTopicsTextHandlesEmptyTopicList(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() {
		jsonOutput = prevJSON
	})
	jsonOutput = false

	section := docsSectionView{ID: "guide", Title: "User Guide", TopicCount: 0}
	out := captureStdout(t, func() {
		err := outputDocsTopics(section, nil)
		if err != nil {
			t.Fatalf("outputDocsTopics() error = %v", err)
		}
	})

	if !strings.Contains(out, "(no topics)") {
		t.Fatalf("output missing empty topic marker:\n%s", out)
	}
}

func TestShouldUseDocsFZFNavigator(t *testing.T) {
	prevJSON := jsonOutput
	prevLookPath := docsLookPath
	prevStdin := docsStdinIsTerminal
	prevStdout := docsStdoutIsTerminal
	t.Cleanup(func() {
		jsonOutput = prevJSON
		docsLookPath = prevLookPath
		docsStdinIsTerminal = prevStdin
		docsStdoutIsTerminal = prevStdout
	})

	jsonOutput = false
	docsLookPath = func(string) (string, error) { return "/usr/bin/fzf", nil }
	docsStdinIsTerminal = func() bool { return true }
	docsStdoutIsTerminal = func() bool { return true }

	if !shouldUseDocsFZFNavigator() {
		t.Fatal("expected navigator with a terminal and fzf present")
	}

	jsonOutput = true
	if shouldUseDocsFZFNavigator() {
		t.Fatal("expected no navigator in JSON mode")
	}
	jsonOutput = false

	docsStdoutIsTerminal = func() bool { return false }
	if shouldUseDocsFZFNavigator() {
		t.Fatal("expected no navigator without a terminal")
	}
	docsStdoutIsTerminal = func() bool { return true }

	docsLookPath = func(string) (string, error) { return "", os.ErrNotExist }
	if shouldUseDocsFZFNavigator() {
		t.Fatal("expected no navigator without fzf installed")
	}
}

func TestDocsFZFNavigatorOpensSelectedTopic(t *testing.T) {
	prevJSON := jsonOutput
	prevFZFRun := docsFZFRun
	prevDisplay := docsDisplayContext
	t.Cleanup(func() {
		jsonOutput = prevJSON
		docsFZFRun = prevFZFRun
		docsDisplayContext = prevDisplay
	})
	jsonOutput = false
	docsDisplayContext = func() *ui.DisplayContext {
		return &ui.DisplayContext{TermWidth: 80, IsTTY: false}
	}

	var prompts []string
	docsFZFRun = func(lines []string, prompt, header string) (string, bool, error) {
		prompts = append(prompts, prompt)
		if len(lines) == 0 {
			t.Fatal("selector got no lines")
		}
		switch len(prompts) {
		case 1:
			return "guide\tGuide\t3 topics", true, nil
		default:
			return "getting-started\tGetting Started", true, nil
		}
	}

	sections, err := listBundledDocsSections()
	if err != nil {
		t.Fatalf("listBundledDocsSections() error = %v", err)
	}

	out := captureStdout(t, func() {
		if err := runDocsFZFNavigator(sections); err != nil {
			t.Fatalf("runDocsFZFNavigator() error = %v", err)
		}
	})

	if len(prompts) != 2 || prompts[0] != "docs/section> " || prompts[1] != "docs/guide> " {
		t.Fatalf("prompts = %v", prompts)
	}
	if !strings.Contains(out, "Path: docs/guide/getting-started.md") {
		t.Fatalf("output missing topic path:\n%s", out)
	}
	if !strings.Contains(out, "Getting Started") {
		t.Fatalf("output missing topic content:\n%s", out)
	}
}

func TestDocsFZFNavigatorCancelPrintsNothing(t *testing.T) {
	prevJSON := jsonOutput
	prevFZFRun := docsFZFRun
	t.Cleanup(func() {
		jsonOutput = prevJSON
		docsFZFRun = prevFZFRun
	})
	jsonOutput = false

	docsFZFRun = func(lines []string, prompt, header string) (string, bool, error) {
		return "", false, nil
	}

	sections, err := listBundledDocsSections()
	if err != nil {
		t.Fatalf("listBundledDocsSections() error = %v", err)
	}

	out := captureStdout(t, func() {
		if err := runDocsFZFNavigator(sections); err != nil {
			t.Fatalf("runDocsFZFNavigator() error = %v", err)
		}
	})
	if out != "" {
		t.Fatalf("expected no output on cancel, got %q", out)
	}
}
