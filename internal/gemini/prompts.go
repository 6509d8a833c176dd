package gemini

import (
	"fmt"
	"strings"

	"github.com/artiestudio/artie/internal/scene"
)

// ideaPrompt seeds the "ask Artie" button.
const ideaPrompt = `Generate a single, fun, and slightly absurd product name and a one-sentence visual idea for a fictional ad.
Return the result as a JSON object with keys "product" and "visualIdea".`

func scriptPrompt(brief scene.Brief, prior []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short, punchy ad script for a %s ad for a product called %q.\n", brief.VisualType, brief.Product)
	fmt.Fprintf(&b, "The ad should evoke the style of the %s.\n", brief.Era)
	fmt.Fprintf(&b, "The tone should be %s.\n", brief.Tone)
	if len(prior) > 0 {
		fmt.Fprintf(&b, "This is a multi-part ad. The script for the previous scene(s) was: %q. Continue the story seamlessly.\n", strings.Join(prior, " "))
	}
	fmt.Fprintf(&b, "The core visual idea for THIS SCENE is: %q.\n", brief.VisualIdea)
	if brief.Notes != "" {
		fmt.Fprintf(&b, "Additional notes for this scene: %q.\n", brief.Notes)
	}
	b.WriteString("The script should be concise, ideally 1-2 lines for this specific scene. Return the script as a JSON array of strings.")
	return b.String()
}

func brainstormPrompt(product, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Brainstorm 3 distinct, creative ad concepts for a product called %q.\n", product)
	fmt.Fprintf(&b, "For each concept, provide a catchy headline, a short tagline, a suggested tone (choose from this list: %s), and a compelling visual idea.\n", strings.Join(scene.Tones, ", "))
	if notes != "" {
		fmt.Fprintf(&b, "Keep these notes in mind: %q.\n", notes)
	}
	b.WriteString("Return the concepts as a JSON array.")
	return b.String()
}
