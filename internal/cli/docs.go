package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	builtindocs "github.com/aidanlsb/magpie/docs"
	"github.com/aidanlsb/magpie/internal/ui"
)

const docsIndexFile = "index.yaml"

// docsFZFRunFunc runs an interactive selector over tab-separated lines
// and reports the chosen line, if any.
type docsFZFRunFunc func(lines []string, prompt, header string) (selectionLine string, selected bool, err error)

// Indirections for the parts that touch the terminal or spawn fzf, so
// the navigator is testable without either.
var (
	docsLookPath         = exec.LookPath
	docsStdinIsTerminal  = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }
	docsStdoutIsTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
	docsDisplayContext   = ui.NewDisplayContext
	docsMarkdownRender   = ui.RenderMarkdown
)

var docsFZFRun docsFZFRunFunc = runDocsFZF

var (
	docsSearchLimit   int
	docsSearchSection string
)

type docsSectionView struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TopicCount int    `json:"topic_count"`
}

type docsTopicView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type docsTopicRecord struct {
	Section string
	ID      string
	Title   string
	Path    string
	FSPath  string
}

type docsSearchMatchView struct {
	Section string `json:"section"`
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// docsIndex mirrors index.yaml with sections and topics kept in
// declaration order, which is also display order.
type docsIndex struct {
	sections []docsIndexSection
}

type docsIndexSection struct {
	id     string
	title  string
	topics []docsIndexTopic
}

type docsIndexTopic struct {
	id    string
	title string
	path  string
}

var docsCmd = &cobra.Command{
	Use:   "docs [section] [topic]",
	Short: "Browse long-form Markdown documentation",
	Long: `Browse long-form documentation bundled into the mgp binary.

Use this command for guides and references. When run in a terminal with
fzf installed, 'mgp docs' opens an interactive selector. For
command-level usage, use 'mgp help <command>'.

Examples:
  mgp docs
  mgp docs list
  mgp docs <section>
  mgp docs <section> <topic>
  mgp docs search "saved report"
  mgp docs search aggregates --section reference`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := listBundledDocsSections()
		if err != nil {
			return handleError(ErrInternal, err, "Rebuild mgp so bundled docs are available")
		}

		if len(args) == 0 {
			if shouldUseDocsFZFNavigator() {
				if err := runDocsFZFNavigator(sections); err != nil {
					return handleError(ErrInternal, err, "Run 'mgp docs list' for non-interactive output")
				}
				return nil
			}
			return outputDocsSections(sections)
		}

		section, ok := findDocsSection(sections, args[0])
		if !ok {
			return docsSectionNotFound(args[0], sections)
		}

		topics, err := listDocsTopicsFS(builtindocs.FS, ".", section.ID)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 1 {
			return outputDocsTopics(section, topics)
		}

		topic, ok := findDocsTopic(topics, args[1])
		if !ok {
			return docsTopicNotFound(section.ID, args[1], topics)
		}

		return outputDocsTopicContent(topic)
	},
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List docs sections and section commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, err := listBundledDocsSections()
		if err != nil {
			return handleError(ErrInternal, err, "Rebuild mgp so bundled docs are available")
		}
		return outputDocsSections(sections)
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search long-form Markdown documentation",
	Long: `Search long-form documentation in docs/**/*.md.

Examples:
  mgp docs search filters
  mgp docs search "saved report" --section guide
  mgp docs search aggregate --limit 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return handleErrorMsg(ErrMissingArgument, "specify a search query", "Usage: mgp docs search <query>")
		}
		if docsSearchLimit < 1 {
			return handleErrorMsg(ErrInvalidInput, "--limit must be >= 1", "")
		}

		matches, err := searchDocsFS(builtindocs.FS, ".", query, docsSearchSection, docsSearchLimit)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'mgp docs' to list sections")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"query":   query,
				"count":   len(matches),
				"matches": matches,
			}, &Meta{Count: len(matches)})
			return nil
		}

		if len(matches) == 0 {
			fmt.Printf("No docs matched %q.\n", query)
			return nil
		}

		fmt.Printf("Matches for %q (%d):\n", query, len(matches))
		list := ui.NewList()
		for _, m := range matches {
			list.Add(fmt.Sprintf("%s/%s:%s %s", m.Section, m.Topic, ui.LineNum(m.Line), m.Snippet))
		}
		fmt.Print(list.String())
		return nil
	},
}

func outputDocsSections(sections []docsSectionView) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"sections":       sections,
			"command_docs":   "mgp help <command>",
			"navigation_tip": "mgp docs <section> <topic>",
		}, &Meta{Count: len(sections)})
		return nil
	}

	fmt.Println("Documentation section commands:")
	for _, s := range sections {
		sectionCommand := fmt.Sprintf("mgp docs %s", s.ID)
		fmt.Printf("  %-24s %s (%s)\n", sectionCommand, s.Title, docsTopicCountSummary(s.TopicCount))
	}
	fmt.Println()
	fmt.Println("General docs commands:")
	fmt.Println("  mgp docs list                 List sections and section commands")
	fmt.Println("  mgp docs <section>            List topics in a section")
	fmt.Println("  mgp docs <section> <topic>    Open a docs topic")
	fmt.Println("  mgp docs search <query>       Search docs")
	fmt.Println("  mgp help <command>            Command docs")
	return nil
}

func outputDocsTopics(section docsSectionView, topics []docsTopicRecord) error {
	if isJSONOutput() {
		items := make([]docsTopicView, 0, len(topics))
		for _, t := range topics {
			items = append(items, docsTopicView{ID: t.ID, Title: t.Title, Path: t.Path})
		}
		outputSuccess(map[string]interface{}{
			"section": section.ID,
			"title":   section.Title,
			"topics":  items,
		}, &Meta{Count: len(items)})
		return nil
	}

	fmt.Printf("Documentation topic commands for %s [%s]:\n", section.Title, section.ID)
	if len(topics) == 0 {
		fmt.Println("  (no topics)")
		return nil
	}
	for _, t := range topics {
		topicCommand := fmt.Sprintf("mgp docs %s %s", section.ID, t.ID)
		fmt.Printf("  %-48s %s\n", topicCommand, t.Title)
	}
	fmt.Println()
	fmt.Println("General docs commands:")
	fmt.Printf("  %-48s %s\n", fmt.Sprintf("mgp docs %s", section.ID), "List topics in this section")
	fmt.Printf("  %-48s %s\n", fmt.Sprintf("mgp docs search <query> --section %s", section.ID), "Search only this section")
	fmt.Printf("  %-48s %s\n", "mgp docs list", "List sections and section commands")
	return nil
}

func outputDocsTopicContent(topic docsTopicRecord) error {
	content, err := fs.ReadFile(builtindocs.FS, topic.FSPath)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"section": topic.Section,
			"topic":   topic.ID,
			"title":   topic.Title,
			"path":    topic.Path,
			"content": string(content),
		}, nil)
		return nil
	}

	rendered := string(content)
	display := docsDisplayContext()
	if display.IsTTY {
		if out, renderErr := docsMarkdownRender(string(content), display.TermWidth); renderErr == nil {
			rendered = out
		}
	}

	fmt.Printf("Path: %s\n\n", topic.Path)
	fmt.Print(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		fmt.Println()
	}
	return nil
}

func docsSectionNotFound(input string, sections []docsSectionView) error {
	available := make([]string, 0, len(sections))
	for _, s := range sections {
		available = append(available, s.ID)
	}
	sort.Strings(available)

	return handleErrorMsg(
		ErrInvalidInput,
		fmt.Sprintf("unknown docs section: %s", input),
		fmt.Sprintf("Run 'mgp docs' to list sections (available: %s); command docs live under 'mgp help <command>'", strings.Join(available, ", ")),
	)
}

func docsTopicNotFound(sectionID, topicInput string, topics []docsTopicRecord) error {
	available := make([]string, 0, len(topics))
	for _, t := range topics {
		available = append(available, t.ID)
	}
	sort.Strings(available)

	suggestion := fmt.Sprintf("Run 'mgp docs %s' to list topics", sectionID)
	if len(available) > 0 {
		suggestion = fmt.Sprintf("%s (available: %s)", suggestion, strings.Join(available, ", "))
	}

	return handleErrorMsg(
		ErrInvalidInput,
		fmt.Sprintf("unknown topic %q in section %q", topicInput, sectionID),
		suggestion,
	)
}

// fzf navigator: section picker, then topic picker, then render.

func shouldUseDocsFZFNavigator() bool {
	if isJSONOutput() {
		return false
	}
	if !docsStdinIsTerminal() || !docsStdoutIsTerminal() {
		return false
	}
	_, err := docsLookPath("fzf")
	return err == nil
}

func runDocsFZFNavigator(sections []docsSectionView) error {
	section, ok, err := pickDocsSectionWithFZF(sections)
	if err != nil || !ok {
		return err
	}

	topics, err := listDocsTopicsFS(builtindocs.FS, ".", section.ID)
	if err != nil {
		return err
	}

	topic, ok, err := pickDocsTopicWithFZF(section, topics)
	if err != nil || !ok {
		return err
	}

	return outputDocsTopicContent(topic)
}

func pickDocsSectionWithFZF(sections []docsSectionView) (docsSectionView, bool, error) {
	lines := make([]string, 0, len(sections))
	for _, section := range sections {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", section.ID, section.Title, docsTopicCountSummary(section.TopicCount)))
	}

	selectedLine, selected, err := docsFZFRun(lines, "docs/section> ", "Select a docs section (Esc to cancel)")
	if err != nil {
		return docsSectionView{}, false, err
	}
	if !selected {
		return docsSectionView{}, false, nil
	}

	sectionID := docsFZFSelectionID(selectedLine)
	section, ok := findDocsSection(sections, sectionID)
	if !ok {
		return docsSectionView{}, false, fmt.Errorf("selected unknown docs section %q", sectionID)
	}
	return section, true, nil
}

func pickDocsTopicWithFZF(section docsSectionView, topics []docsTopicRecord) (docsTopicRecord, bool, error) {
	lines := make([]string, 0, len(topics))
	for _, topic := range topics {
		lines = append(lines, fmt.Sprintf("%s\t%s", topic.ID, topic.Title))
	}

	prompt := fmt.Sprintf("docs/%s> ", section.ID)
	header := fmt.Sprintf("Select a topic in %s [%s] (Esc to cancel)", section.Title, section.ID)
	selectedLine, selected, err := docsFZFRun(lines, prompt, header)
	if err != nil {
		return docsTopicRecord{}, false, err
	}
	if !selected {
		return docsTopicRecord{}, false, nil
	}

	topicID := docsFZFSelectionID(selectedLine)
	topic, ok := findDocsTopic(topics, topicID)
	if !ok {
		return docsTopicRecord{}, false, fmt.Errorf("selected unknown docs topic %q in section %q", topicID, section.ID)
	}
	return topic, true, nil
}

func docsFZFSelectionID(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	parts := strings.SplitN(line, "\t", 2)
	return strings.TrimSpace(parts[0])
}

func runDocsFZF(lines []string, prompt, header string) (string, bool, error) {
	if len(lines) == 0 {
		return "", false, nil
	}

	args := []string{
		"--layout=reverse",
		"--height=80%",
		"--border",
		"--prompt", prompt,
		"--delimiter", "\t",
		"--with-nth", "2..",
		"--select-1",
		"--exit-0",
	}
	if strings.TrimSpace(header) != "" {
		args = append(args, "--header", header)
	}

	cmd := exec.Command("fzf", args...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// fzf exits 1 on no match and 130 on Esc/ctrl-c.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code == 1 || code == 130 {
				return "", false, nil
			}
		}
		return "", false, fmt.Errorf("run fzf selector: %w", err)
	}

	selection := strings.TrimSpace(stdout.String())
	if selection == "" {
		return "", false, nil
	}
	return selection, true, nil
}

// Index loading and listing.

func listBundledDocsSections() ([]docsSectionView, error) {
	return listDocsSectionsFS(builtindocs.FS, ".")
}

func listDocsSectionsFS(docsFS fs.FS, docsRoot string) ([]docsSectionView, error) {
	index, err := loadDocsIndexFS(docsFS, docsRoot)
	if err != nil {
		return nil, err
	}

	sections := make([]docsSectionView, 0, len(index.sections))
	for _, s := range index.sections {
		if _, err := resolveDocsSectionDir(docsFS, docsRoot, s.id); err != nil {
			return nil, err
		}
		title := s.title
		if title == "" {
			title = titleFromSlug(s.id)
		}
		sections = append(sections, docsSectionView{
			ID:         s.id,
			Title:      title,
			TopicCount: len(s.topics),
		})
	}
	return sections, nil
}

func listDocsTopicsFS(docsFS fs.FS, docsRoot, sectionID string) ([]docsTopicRecord, error) {
	index, err := loadDocsIndexFS(docsFS, docsRoot)
	if err != nil {
		return nil, err
	}

	var section *docsIndexSection
	for i := range index.sections {
		if index.sections[i].id == sectionID {
			section = &index.sections[i]
			break
		}
	}
	if section == nil {
		return nil, fmt.Errorf("section %q is not declared in docs index", sectionID)
	}

	dir, err := resolveDocsSectionDir(docsFS, docsRoot, sectionID)
	if err != nil {
		return nil, err
	}

	records := make([]docsTopicRecord, 0, len(section.topics))
	for _, topic := range section.topics {
		fsPath := path.Join(dir, topic.path)
		info, err := fs.Stat(docsFS, fsPath)
		if err != nil {
			return nil, fmt.Errorf("docs index topic %q in section %q points to missing file %q: %w", topic.id, sectionID, topic.path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("docs index topic %q in section %q path %q is a directory", topic.id, sectionID, topic.path)
		}

		title := topic.title
		if title == "" {
			title = extractDocsTitleFS(docsFS, fsPath, topic.id)
		}
		records = append(records, docsTopicRecord{
			Section: sectionID,
			ID:      topic.id,
			Title:   title,
			Path:    path.Join("docs", sectionID, topic.path),
			FSPath:  fsPath,
		})
	}
	return records, nil
}

func resolveDocsSectionDir(docsFS fs.FS, docsRoot, sectionID string) (string, error) {
	dir := path.Join(docsRoot, sectionID)
	info, err := fs.Stat(docsFS, dir)
	if err != nil {
		return "", fmt.Errorf("section %q not found: %w", sectionID, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("section path %q is not a directory", dir)
	}
	return dir, nil
}

func loadDocsIndexFS(docsFS fs.FS, docsRoot string) (*docsIndex, error) {
	raw, err := fs.ReadFile(docsFS, path.Join(docsRoot, docsIndexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("docs index not found at %s", path.Join(docsRoot, docsIndexFile))
		}
		return nil, fmt.Errorf("read docs index: %w", err)
	}

	var doc struct {
		Sections yaml.Node `yaml:"sections"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}
	if doc.Sections.Kind == 0 {
		return nil, fmt.Errorf("docs index has no sections")
	}
	if doc.Sections.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse docs index: sections must be a mapping")
	}

	index := &docsIndex{}
	for i := 0; i+1 < len(doc.Sections.Content); i += 2 {
		sectionID := strings.TrimSpace(doc.Sections.Content[i].Value)
		if sectionID == "" {
			return nil, fmt.Errorf("docs index contains an empty section key")
		}

		var meta struct {
			Title  string    `yaml:"title"`
			Topics yaml.Node `yaml:"topics"`
		}
		if err := doc.Sections.Content[i+1].Decode(&meta); err != nil {
			return nil, fmt.Errorf("parse docs index section %q: %w", sectionID, err)
		}
		if meta.Topics.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("docs index section %q needs a topics mapping", sectionID)
		}

		section := docsIndexSection{id: sectionID, title: strings.TrimSpace(meta.Title)}
		for j := 0; j+1 < len(meta.Topics.Content); j += 2 {
			topicID := strings.TrimSpace(meta.Topics.Content[j].Value)
			if topicID == "" {
				return nil, fmt.Errorf("docs index section %q contains an empty topic key", sectionID)
			}

			var topicMeta struct {
				Title string `yaml:"title"`
				Path  string `yaml:"path"`
			}
			if err := meta.Topics.Content[j+1].Decode(&topicMeta); err != nil {
				return nil, fmt.Errorf("parse docs index topic %q in section %q: %w", topicID, sectionID, err)
			}
			if strings.TrimSpace(topicMeta.Path) == "" {
				return nil, fmt.Errorf("docs index topic %q in section %q is missing required field \"path\"", topicID, sectionID)
			}

			section.topics = append(section.topics, docsIndexTopic{
				id:    topicID,
				title: strings.TrimSpace(topicMeta.Title),
				path:  strings.TrimSpace(topicMeta.Path),
			})
		}
		if len(section.topics) == 0 {
			return nil, fmt.Errorf("docs index section %q has no topics", sectionID)
		}
		index.sections = append(index.sections, section)
	}
	if len(index.sections) == 0 {
		return nil, fmt.Errorf("docs index has no sections")
	}
	return index, nil
}

// Lookup and search helpers.

func findDocsSection(sections []docsSectionView, raw string) (docsSectionView, bool) {
	needle := normalizeDocsSegment(raw)
	for _, section := range sections {
		if section.ID == needle {
			return section, true
		}
	}
	return docsSectionView{}, false
}

func findDocsTopic(topics []docsTopicRecord, raw string) (docsTopicRecord, bool) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(raw, ".md"))
	needle := normalizeDocsPathSlug(trimmed)
	for _, topic := range topics {
		if topic.ID == needle {
			return topic, true
		}
	}
	return docsTopicRecord{}, false
}

func searchDocsFS(docsFS fs.FS, docsRoot, query, sectionFilter string, limit int) ([]docsSearchMatchView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1")
	}

	sections, err := listDocsSectionsFS(docsFS, docsRoot)
	if err != nil {
		return nil, err
	}

	selected := sections
	if strings.TrimSpace(sectionFilter) != "" {
		section, ok := findDocsSection(sections, sectionFilter)
		if !ok {
			return nil, fmt.Errorf("unknown section: %s", sectionFilter)
		}
		selected = []docsSectionView{section}
	}

	queryLower := strings.ToLower(query)
	matches := make([]docsSearchMatchView, 0, limit)

	for _, section := range selected {
		topics, err := listDocsTopicsFS(docsFS, docsRoot, section.ID)
		if err != nil {
			return nil, err
		}

		for _, topic := range topics {
			content, err := fs.ReadFile(docsFS, topic.FSPath)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", topic.Path, err)
			}

			for i, line := range strings.Split(string(content), "\n") {
				if !strings.Contains(strings.ToLower(line), queryLower) {
					continue
				}
				matches = append(matches, docsSearchMatchView{
					Section: section.ID,
					Topic:   topic.ID,
					Title:   topic.Title,
					Path:    topic.Path,
					Line:    i + 1,
					Snippet: shortenDocsSnippet(line, queryLower),
				})
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}

func shortenDocsSnippet(line, queryLower string) string {
	const maxLen = 160
	snippet := strings.TrimSpace(line)
	if snippet == "" {
		return "(blank line)"
	}
	if len(snippet) <= maxLen {
		return snippet
	}

	idx := strings.Index(strings.ToLower(snippet), queryLower)
	if idx < 0 {
		return snippet[:maxLen-1] + "..."
	}

	start := idx - 50
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(snippet) {
		end = len(snippet)
	}
	out := snippet[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(snippet) {
		out += "..."
	}
	return out
}

// extractDocsTitleFS pulls the first markdown H1 as the topic title,
// falling back to a titlecased form of the slug.
func extractDocsTitleFS(docsFS fs.FS, docsPath, fallbackSlug string) string {
	f, err := docsFS.Open(docsPath)
	if err != nil {
		return titleFromSlug(path.Base(fallbackSlug))
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			if title := strings.TrimSpace(strings.TrimPrefix(line, "# ")); title != "" {
				return title
			}
		}
	}
	return titleFromSlug(path.Base(fallbackSlug))
}

// normalizeDocsPathSlug normalizes each "/"-separated segment of a
// topic path, accepting backslash separators from pasted Windows paths.
func normalizeDocsPathSlug(input string) string {
	input = strings.ReplaceAll(strings.TrimSpace(input), "\\", "/")
	if input == "" {
		return ""
	}

	parts := strings.Split(input, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if norm := normalizeDocsSegment(part); norm != "" {
			out = append(out, norm)
		}
	}
	return strings.Join(out, "/")
}

func normalizeDocsSegment(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func titleFromSlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return slug
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func docsTopicCountSummary(topicCount int) string {
	if topicCount == 1 {
		return "1 topic"
	}
	return fmt.Sprintf("%d topics", topicCount)
}

func init() {
	docsSearchCmd.Flags().IntVarP(&docsSearchLimit, "limit", "n", 20, "Maximum number of matches")
	docsSearchCmd.Flags().StringVarP(&docsSearchSection, "section", "s", "", "Filter search to a docs section")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
