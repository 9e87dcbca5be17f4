package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// hyperlinkEnabled caches whether we should emit hyperlinks.
// Hyperlinks are only emitted to TTY terminals, not JSON output or pipes.
var hyperlinkEnabled *bool

// hyperlinksDisabled forces hyperlinks off for the current run (--no-links).
var hyperlinksDisabled bool

func setHyperlinksDisabled(disabled bool) {
	hyperlinksDisabled = disabled
	// Reset cached decision so changes take effect immediately.
	hyperlinkEnabled = nil
}

// shouldEmitHyperlinks returns true if we should emit OSC 8 hyperlinks.
func shouldEmitHyperlinks() bool {
	if hyperlinkEnabled != nil {
		return *hyperlinkEnabled
	}

	// Don't emit hyperlinks for JSON output or non-TTY
	enabled := !jsonOutput && isatty.IsTerminal(os.Stdout.Fd()) && !hyperlinksDisabled
	hyperlinkEnabled = &enabled
	return enabled
}

// hyperlink wraps text in an OSC 8 sequence pointing at url. File-field
// cells carry storage URLs; making them clickable beats making the reader
// copy them out of a table.
func hyperlink(url, text string) string {
	if !shouldEmitHyperlinks() || url == "" {
		return text
	}
	return fmt.Sprintf("\x1b]8;;%s\x07%s\x1b]8;;\x07", url, text)
}
