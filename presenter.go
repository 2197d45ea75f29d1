// File: snowcfg/presenter.go
package snowcfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RedactionMarker replaces sensitive values in every table, chain and export
// rendering.
const RedactionMarker = "****"

// Key-name substrings that decide masking. Passwords and passphrases are
// always secret, even when the key also mentions a file
// (private_key_file_pwd). Otherwise keys naming a file or path
// (private_key_file, token_file_path) stay visible: the value is a location,
// not a credential.
var (
	alwaysSensitiveKeyParts = []string{"password", "passphrase", "passcode", "pwd", "secret"}
	sensitiveKeyParts       = []string{"token", "private_key"}
	pathlikeKeyParts        = []string{"file", "path"}
)

// isSensitiveKey reports whether a key's value must be masked.
func isSensitiveKey(key string) bool {
	segments := strings.Split(key, ".")
	last := strings.ToLower(segments[len(segments)-1])

	for _, part := range alwaysSensitiveKeyParts {
		if strings.Contains(last, part) {
			return true
		}
	}
	for _, part := range pathlikeKeyParts {
		if strings.Contains(last, part) {
			return false
		}
	}
	for _, part := range sensitiveKeyParts {
		if strings.Contains(last, part) {
			return true
		}
	}
	return false
}

// maskValue renders a value for display, redacting secrets.
func maskValue(key string, value any) string {
	if isSensitiveKey(key) {
		return RedactionMarker
	}
	return stringify(value)
}

// ResolutionPresenter renders resolver output for the debug commands. Pure
// formatting over the history tracker; no resolution side effects.
type ResolutionPresenter struct {
	tracker *ResolutionHistoryTracker

	keyStyle      lipgloss.Style
	headerStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	dimStyle      lipgloss.Style
}

// NewResolutionPresenter builds a presenter over a history tracker.
func NewResolutionPresenter(tracker *ResolutionHistoryTracker) *ResolutionPresenter {
	return &ResolutionPresenter{
		tracker:       tracker,
		keyStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Table renders a row-per-key table with one column per known source name
// and the final value last. Absent cells show "-"; the winning cell is
// highlighted.
func (p *ResolutionPresenter) Table() string {
	sources := p.tracker.SourceNames()
	keys := p.tracker.Keys()

	header := append([]string{"KEY"}, sources...)
	header = append(header, "FINAL")

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}

	type row struct {
		cells    []string
		selected int // column index of the winning cell, -1 if none
	}
	rows := make([]row, 0, len(keys))

	for _, key := range keys {
		h := p.tracker.GetResolutionHistory(key)
		cells := make([]string, len(header))
		cells[0] = key
		for i := range sources {
			cells[i+1] = "-"
		}

		selected := -1
		for _, e := range h.Entries {
			for i, name := range sources {
				if e.Value.SourceName != name {
					continue
				}
				cells[i+1] = maskValue(key, e.Value.Value)
				if e.WasUsed {
					selected = i + 1
				}
			}
		}

		final := "-"
		if h.DefaultUsed {
			final = maskValue(key, h.FinalValue) + " (default)"
		} else if h.FinalValue != nil {
			final = maskValue(key, h.FinalValue)
		}
		cells[len(cells)-1] = final

		for i, c := range cells {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
		rows = append(rows, row{cells: cells, selected: selected})
	}

	var b strings.Builder
	writeCells := func(cells []string, styleFor func(i int) lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			padded := c + strings.Repeat(" ", widths[i]-len(c))
			parts[i] = styleFor(i).Render(padded)
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}

	writeCells(header, func(int) lipgloss.Style { return p.headerStyle })
	for _, r := range rows {
		writeCells(r.cells, func(i int) lipgloss.Style {
			switch {
			case i == 0:
				return p.keyStyle
			case i == r.selected:
				return p.selectedStyle
			case r.cells[i] == "-":
				return p.dimStyle
			default:
				return lipgloss.NewStyle()
			}
		})
	}
	return b.String()
}

// Chain renders the per-key decision narrative:
//
//	1. [SELECTED] cli_arguments: cli_acc
//	2. [overridden by cli_arguments] toml:config: file_acc
//
// Returns an empty string for an untracked key.
func (p *ResolutionPresenter) Chain(key string) string {
	h := p.tracker.GetResolutionHistory(key)
	if h == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.headerStyle.Render(key))
	b.WriteString("\n")

	for i, e := range h.Entries {
		status := "candidate"
		style := p.dimStyle
		switch {
		case e.WasUsed:
			status = "SELECTED"
			style = p.selectedStyle
		case e.OverriddenBy != "":
			status = "overridden by " + e.OverriddenBy
		}
		line := fmt.Sprintf("%d. [%s] %s: %s", i+1, status, e.Value.SourceName, maskValue(key, e.Value.Value))
		if e.Value.RawValue != "" && e.Value.RawValue != stringify(e.Value.Value) && !isSensitiveKey(key) {
			line += fmt.Sprintf(" (raw: %s)", e.Value.RawValue)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if h.DefaultUsed {
		b.WriteString(p.dimStyle.Render(fmt.Sprintf("-> default used: %s", maskValue(key, h.FinalValue))))
		b.WriteString("\n")
	}
	return b.String()
}

// Export wire format. Consumers should tolerate additional fields.

type exportEntry struct {
	SourceName   string `json:"source_name"`
	Value        any    `json:"value"`
	RawValue     string `json:"raw_value"`
	WasUsed      bool   `json:"was_used"`
	OverriddenBy string `json:"overridden_by,omitempty"`
}

type exportHistory struct {
	FinalValue  any           `json:"final_value"`
	DefaultUsed bool          `json:"default_used"`
	Entries     []exportEntry `json:"entries"`
}

type exportSummary struct {
	TotalKeys      int                    `json:"total_keys"`
	OverriddenKeys int                    `json:"overridden_keys"`
	DefaultKeys    int                    `json:"default_keys"`
	Sources        map[string]SourceStats `json:"sources"`
}

type exportDocument struct {
	Summary   exportSummary            `json:"summary"`
	Histories map[string]exportHistory `json:"histories"`
}

// ExportJSON produces the full diagnosis document: summary plus every per-key
// history, secrets masked.
func (p *ResolutionPresenter) ExportJSON() ([]byte, error) {
	summary := p.tracker.Summary()
	doc := exportDocument{
		Summary: exportSummary{
			TotalKeys:      summary.TotalKeys,
			OverriddenKeys: summary.OverriddenKeys,
			DefaultKeys:    summary.DefaultKeys,
			Sources:        summary.Sources,
		},
		Histories: make(map[string]exportHistory, summary.TotalKeys),
	}

	for _, key := range p.tracker.Keys() {
		h := p.tracker.GetResolutionHistory(key)
		eh := exportHistory{
			FinalValue:  maskedExportValue(key, h.FinalValue),
			DefaultUsed: h.DefaultUsed,
			Entries:     make([]exportEntry, 0, len(h.Entries)),
		}
		for _, e := range h.Entries {
			raw := e.Value.RawValue
			if isSensitiveKey(key) {
				raw = RedactionMarker
			}
			eh.Entries = append(eh.Entries, exportEntry{
				SourceName:   e.Value.SourceName,
				Value:        maskedExportValue(key, e.Value.Value),
				RawValue:     raw,
				WasUsed:      e.WasUsed,
				OverriddenBy: e.OverriddenBy,
			})
		}
		doc.Histories[key] = eh
	}

	return json.MarshalIndent(doc, "", "  ")
}

// ExportToFile writes the JSON export atomically.
func (p *ResolutionPresenter) ExportToFile(path string) error {
	data, err := p.ExportJSON()
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

func maskedExportValue(key string, value any) any {
	if value != nil && isSensitiveKey(key) {
		return RedactionMarker
	}
	return value
}
