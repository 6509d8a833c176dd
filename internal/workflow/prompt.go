package workflow

import (
	"fmt"
	"strings"

	"github.com/artiestudio/artie/internal/scene"
)

// visualPrompt composes the generation prompt for a scene's visual. On-screen
// text is explicitly excluded because copy is layered on as overlays.
func visualPrompt(brief scene.Brief, script []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A %s advertisement visual for %q, set in the %s.",
		strings.ToLower(brief.Tone), brief.Product, brief.Era)
	if brief.VisualIdea != "" {
		fmt.Fprintf(&b, " Visual concept: %s.", strings.TrimSuffix(brief.VisualIdea, "."))
	}
	if len(script) > 0 {
		fmt.Fprintf(&b, " The ad copy this accompanies: %s", strings.Join(script, " "))
	}
	if brief.Notes != "" {
		fmt.Fprintf(&b, " Additional direction: %s", brief.Notes)
	}
	b.WriteString(" Do not render any text; copy is overlaid separately.")
	return b.String()
}
