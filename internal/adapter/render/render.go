// Package render maps tool result payloads to display cards: a one-line
// collapsed summary and an expandable detail view. Every payload field is
// optional on the wire, so each renderer degrades to explicit empty-state
// text instead of assuming shape.
package render

import (
	"bytes"
	"encoding/json"

	"genechat/internal/adapter/tui/theme"
	"genechat/internal/domain"
)

// Card is the rendered form of one tool result.
type Card struct {
	Tool    string
	Summary string // one line, shown collapsed
	Detail  string // multi-line, shown expanded
}

// Result renders a tool_result entry. args carries the correlated tool_use
// arguments for tools that need them; it may be nil. Unknown tool names fall
// through to a structured dump of the raw payload.
func Result(e domain.Entry, args json.RawMessage) Card {
	switch e.Tool {
	case domain.ToolWeather:
		return weatherCard(e.Result)
	case domain.ToolTime:
		return timeCard(e.Result)
	case domain.ToolWebSearch:
		return searchCard(e.Result, decodeArgs(args))
	case domain.ToolReadWebsite:
		return websiteCard(e.Result)
	case domain.ToolPubMed:
		return pubmedCard(e.Result, decodeArgs(args))
	case domain.ToolClinVar:
		return clinvarCard(e.Result, decodeArgs(args))
	case domain.ToolGenomeBrowser:
		return genomeCard(e.Result, decodeArgs(args))
	default:
		return genericCard(e.Tool, e.Result)
	}
}

// callArgs is the subset of tool_use argument fields the renderers fall
// back to when the result payload omits the equivalent field.
type callArgs struct {
	Query   string `json:"query"`
	Variant string `json:"variant"`
	Gene    string `json:"gene"`
}

// decodeArgs decodes tool_use arguments best-effort. A missing or
// malformed arguments object yields the zero value; cards only lose
// their fallback text.
func decodeArgs(raw json.RawMessage) callArgs {
	var a callArgs
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &a)
	}
	return a
}

// genericCard pretty-prints the raw payload for unrecognized tools.
func genericCard(tool string, raw json.RawMessage) Card {
	detail := prettyJSON(raw)
	if detail == "" {
		detail = theme.TextMuted.Render("(no result data)")
	}
	return Card{
		Tool:    tool,
		Summary: "Results available",
		Detail:  detail,
	}
}

// prettyJSON indents raw JSON for display. Returns "" for empty or
// unindentable input.
func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// label renders a dim field label for detail views.
func label(s string) string {
	return theme.TextMuted.Render(s)
}
