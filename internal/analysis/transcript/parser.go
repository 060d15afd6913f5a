package transcript

import (
	"strings"
	"unicode"

	"github.com/zhouzirui/chat-vibes/backend/internal/model/chat"
)

// Result is the outcome of a parse pass. Messages may be empty; callers treat
// that as "nothing could be parsed" rather than a failure of Parse.
type Result struct {
	Messages  []chat.Message
	Grammar   Grammar
	DateOrder DateOrder
	// Lines is the number of input lines, Dropped the number of reassembled
	// messages whose timestamp could not be read.
	Lines   int
	Dropped int
}

type row struct {
	date   string
	clock  string
	author string
	body   []string
}

// Parse reconstructs messages from raw transcript text. Lines that do not start
// a new message are continuation lines and are appended to the open message
// with a single space. Parse never fails on malformed input.
func Parse(content string) Result {
	lines := splitLines(strings.TrimPrefix(content, "\ufeff"))
	if len(lines) == 0 {
		return Result{Grammar: grammars[0], DateOrder: DayFirst}
	}

	grammar := DetectGrammar(lines)
	rows := collectRows(lines, grammar)
	messages, order := resolveTimestamps(rows)

	return Result{
		Messages:  messages,
		Grammar:   grammar,
		DateOrder: order,
		Lines:     len(lines),
		Dropped:   len(rows) - len(messages),
	}
}

// collectRows runs the two-state reassembly machine: before the first
// matching line every line is discarded; afterwards non-matching lines extend
// the open row.
func collectRows(lines []string, grammar Grammar) []row {
	var rows []row
	var current *row

	for _, raw := range lines {
		line := trimLine(raw)
		if f, ok := grammar.Match(line); ok {
			if current != nil {
				rows = append(rows, *current)
			}
			current = &row{
				date:   normalizeDate(f.Date),
				clock:  f.Time,
				author: f.Author,
				body:   []string{f.Body},
			}
			continue
		}
		if current != nil {
			current.body = append(current.body, line)
		}
	}
	if current != nil {
		rows = append(rows, *current)
	}
	return rows
}

// resolveTimestamps tries strict day-first, then strict month-first, keeping the
// first strategy that reads more than half of the rows; otherwise each row is
// read with whichever order fits. Rows the chosen strategy rejects are dropped.
func resolveTimestamps(rows []row) ([]chat.Message, DateOrder) {
	if len(rows) == 0 {
		return nil, DayFirst
	}
	for _, order := range []DateOrder{DayFirst, MonthFirst} {
		if messages := convertRows(rows, order); len(messages)*2 > len(rows) {
			return messages, order
		}
	}
	return convertRows(rows, Mixed), Mixed
}

func convertRows(rows []row, order DateOrder) []chat.Message {
	messages := make([]chat.Message, 0, len(rows))
	for _, r := range rows {
		ts, ok := parseStamp(r.date, r.clock, order)
		if !ok {
			continue
		}
		messages = append(messages, chat.Message{
			Author:    r.author,
			Timestamp: ts,
			Body:      strings.Join(r.body, " "),
		})
	}
	return messages
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u2028", "\n", "\u2029", "\n", "\u0085", "\n")

// splitLines splits on any line terminator; a trailing terminator does not
// produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(lineBreaks.Replace(s), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// trimLine strips surrounding whitespace plus the direction marks and BOMs
// some exporters prefix to lines.
func trimLine(line string) string {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\u200e' || r == '\u200f' || r == '\ufeff'
	})
}
