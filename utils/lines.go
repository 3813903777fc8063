package utils

import (
	"regexp"
	"strings"
)

var collapseSpaceRe = regexp.MustCompile(`\s+`)

// LinesFromText splits raw page text into non-empty, whitespace-collapsed
// lines. Line order matches document order; once produced lines are never
// mutated.
func LinesFromText(text string) []string {
	text = strings.ReplaceAll(text, "\x00", " ")
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(collapseSpaceRe.ReplaceAllString(ln, " "))
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// LowerAll returns a lowercased copy of lines, for anchor matching.
func LowerAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = strings.ToLower(ln)
	}
	return out
}

// Window joins the lines within radius of idx into one search window,
// separated by " | " so extractors can tell line boundaries apart.
func Window(lines []string, idx, radius int) string {
	s := max(0, idx-radius)
	e := min(len(lines), idx+radius+1)
	return strings.Join(lines[s:e], " | ")
}
