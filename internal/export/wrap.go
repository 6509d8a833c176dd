package export

import "strings"

// wrapText packs words greedily into lines no wider than maxWidth, as reported
// by measure. A word wider than maxWidth gets a line of its own rather than
// being split. Explicit newlines in text are preserved.
func wrapText(measure func(string) float64, text string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if measure(line+" "+word) > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
