package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// section is one rendered metric.
type section struct {
	Metric string `json:"metric" yaml:"metric"`
	Result any    `json:"result" yaml:"result"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	insightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	bodyStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

type renderer struct {
	out    io.Writer
	format string
	styled bool
}

func newRenderer(out io.Writer, format string) (*renderer, error) {
	format = normalizeFormat(format)
	switch format {
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("invalid output format: %s", format)
	}
	return &renderer{out: out, format: format, styled: isTerminal(out)}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *renderer) render(sections []section) error {
	switch r.format {
	case "json":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if len(sections) == 1 {
			return enc.Encode(sections[0].Result)
		}
		return enc.Encode(sections)
	case "yaml":
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		defer enc.Close()
		if len(sections) == 1 {
			return enc.Encode(sections[0].Result)
		}
		return enc.Encode(sections)
	default:
		for i, s := range sections {
			if i > 0 {
				fmt.Fprintln(r.out)
			}
			if err := r.renderText(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// renderText prints the title, the insight lines and the rest of the bundle as YAML.
func (r *renderer) renderText(s section) error {
	fields, err := toMap(s.Result)
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out, r.style(titleStyle, strings.ToUpper(s.Metric)))

	for _, key := range []string{"insight", "key_insights", "text"} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		delete(fields, key)
		switch val := v.(type) {
		case string:
			if val != "" {
				fmt.Fprintln(r.out, r.style(insightStyle, val))
			}
		case []any:
			for _, item := range val {
				fmt.Fprintln(r.out, r.style(insightStyle, fmt.Sprint(item)))
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	body, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("render %s: %w", s.Metric, err)
	}
	fmt.Fprintln(r.out, bodyStyle.Render(strings.TrimRight(string(body), "\n")))
	return nil
}

func (r *renderer) style(st lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return st.Render(s)
}

// toMap flattens a bundle through its JSON form so text output uses the API field names.
func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
