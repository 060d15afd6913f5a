// Package transcript turns raw exported chat text into ordered message records.
package transcript

import (
	"regexp"
	"strings"
)

// sampleSize bounds how many leading lines are inspected by DetectGrammar.
const sampleSize = 100

// ws also accepts Unicode space separators such as the U+202F that iOS
// exports place before AM/PM.
const ws = `[\s\p{Zs}]`

// Fields are the captures of a line that starts a new message.
type Fields struct {
	Date   string
	Time   string
	Author string
	Body   string
}

// Grammar recognizes the first line of a message in one export variant.
type Grammar struct {
	Name    string
	Example string
	re      *regexp.Regexp
}

func newGrammar(name, example, pattern string) Grammar {
	pattern = strings.ReplaceAll(pattern, `WS`, ws)
	return Grammar{Name: name, Example: example, re: regexp.MustCompile(pattern)}
}

// Match reports whether line starts a new message and returns its captures.
func (g Grammar) Match(line string) (Fields, bool) {
	m := g.re.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}
	return Fields{Date: m[1], Time: m[2], Author: m[3], Body: m[4]}, true
}

// String returns the grammar name.
func (g Grammar) String() string {
	return g.Name
}

// grammars is ordered by priority; earlier entries win ties in DetectGrammar.
var grammars = []Grammar{
	newGrammar("bracket-seconds", "[D/M/Y, H:MM:SS[ AM/PM]] Author: Body",
		`^\[(\d{1,2}/\d{1,2}/\d{2,4}),WS*(\d{1,2}:\d{2}:\d{2}(?:WS*[AaPp][Mm])?)\]WS*(.*?):WS*(.*)$`),
	newGrammar("bracket-minutes", "[D/M/Y, H:MM[ AM/PM]] Author: Body",
		`^\[(\d{1,2}/\d{1,2}/\d{2,4}),WS*(\d{1,2}:\d{2}(?:WS*[AaPp][Mm])?)\]WS*(.*?):WS*(.*)$`),
	newGrammar("dash-legacy", "D/M/Y, H:MM[:SS][ AM/PM] - Author: Body",
		`^(\d{1,2}/\d{1,2}/\d{2,4}),WS*(\d{1,2}:\d{2}(?::\d{2})?(?:WS*[AaPp][Mm])?)WS*-WS*(.*?):WS*(.*)$`),
	newGrammar("bracket-dash-date", "[D-M-Y, H:MM:SS[ AM/PM]] Author: Body",
		`^\[(\d{1,2}-\d{1,2}-\d{2,4}),WS*(\d{1,2}:\d{2}:\d{2}(?:WS*[AaPp][Mm])?)\]WS*(.*?):WS*(.*)$`),
	newGrammar("bracket-dot-date", "[D.M.Y, H:MM:SS[ AM/PM]] Author: Body",
		`^\[(\d{1,2}\.\d{1,2}\.\d{2,4}),WS*(\d{1,2}:\d{2}:\d{2}(?:WS*[AaPp][Mm])?)\]WS*(.*?):WS*(.*)$`),
}

// Grammars returns the candidate grammars in priority order.
func Grammars() []Grammar {
	return append([]Grammar(nil), grammars...)
}

// DetectGrammar picks the grammar matching the most of the first 100 lines.
// Ties, including the all-zero case, resolve to the earliest candidate.
func DetectGrammar(lines []string) Grammar {
	sample := lines
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	best := grammars[0]
	bestCount := 0
	for _, g := range grammars {
		count := 0
		for _, line := range sample {
			if _, ok := g.Match(trimLine(line)); ok {
				count++
			}
		}
		if count > bestCount {
			best = g
			bestCount = count
		}
	}
	return best
}
