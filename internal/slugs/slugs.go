// Package slugs turns report names into filename-safe slugs. Report
// files live at reports/<slug>.md and 'mgp report run' accepts either
// the declared name or its slug, so both sides share one transformation.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts a report name to a lowercase, URL- and
// filename-safe slug. A trailing ".md" is stripped so a report file
// name resolves to the same slug as the name inside it.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(s, " ", "-"))
	}
	return slugged
}
