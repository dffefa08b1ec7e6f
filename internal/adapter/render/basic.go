package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"genechat/internal/adapter/tui/theme"
	"genechat/internal/domain"
)

func weatherCard(raw json.RawMessage) Card {
	var w domain.WeatherResult
	if err := domain.DecodePayload(raw, &w); err != nil {
		return genericCard(domain.ToolWeather, raw)
	}

	summary := fmt.Sprintf("%g%s", w.Temperature, w.UnitSymbol())

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label("Temperature:"), summary)
	if w.Elevation != 0 {
		fmt.Fprintf(&b, "%s %g m\n", label("Elevation:"), w.Elevation)
	}
	if w.Coordinates.Lat != 0 || w.Coordinates.Lon != 0 {
		fmt.Fprintf(&b, "%s %.4f, %.4f\n", label("Coordinates:"), w.Coordinates.Lat, w.Coordinates.Lon)
	}

	return Card{Tool: domain.ToolWeather, Summary: summary, Detail: strings.TrimRight(b.String(), "\n")}
}

func timeCard(raw json.RawMessage) Card {
	var tr domain.TimeResult
	if err := domain.DecodePayload(raw, &tr); err != nil {
		return genericCard(domain.ToolTime, raw)
	}

	summary := tr.Time
	if ts, err := time.Parse(time.RFC3339, tr.Time); err == nil {
		summary = ts.Format("3:04 PM")
	}
	if summary == "" {
		summary = "time unavailable"
	}

	detail := label("Timezone:") + " " + orMuted(tr.Timezone, "(unknown)")
	return Card{Tool: domain.ToolTime, Summary: summary, Detail: detail}
}

func searchCard(raw json.RawMessage, args callArgs) Card {
	var sr domain.SearchResult
	if err := domain.DecodePayload(raw, &sr); err != nil {
		return genericCard(domain.ToolWebSearch, raw)
	}

	query := sr.Query
	if query == "" {
		query = args.Query
	}
	summary := fmt.Sprintf("%q", query)
	if query == "" {
		summary = fmt.Sprintf("%d results", len(sr.Results))
	}

	if len(sr.Results) == 0 {
		return Card{
			Tool:    domain.ToolWebSearch,
			Summary: summary,
			Detail:  theme.TextMuted.Render("No results found"),
		}
	}

	var b strings.Builder
	for _, hit := range sr.Results {
		fmt.Fprintf(&b, "%s %s\n", theme.SymbolBullet, theme.Bold.Render(orMuted(hit.Title, "(untitled)")))
		if hit.Link != "" {
			fmt.Fprintf(&b, "  %s\n", theme.TextInfo.Render(hit.Link))
		}
		if hit.Snippet != "" {
			fmt.Fprintf(&b, "  %s\n", hit.Snippet)
		}
	}
	return Card{Tool: domain.ToolWebSearch, Summary: summary, Detail: strings.TrimRight(b.String(), "\n")}
}

func websiteCard(raw json.RawMessage) Card {
	var wr domain.WebsiteResult
	if err := domain.DecodePayload(raw, &wr); err != nil {
		return genericCard(domain.ToolReadWebsite, raw)
	}

	summary := wr.Title
	if summary == "" {
		summary = wr.URL
	}
	if summary == "" {
		summary = "page fetched"
	}

	var b strings.Builder
	if wr.Description != "" {
		b.WriteString(theme.TextMuted.Render(wr.Description))
		b.WriteString("\n\n")
	}
	if wr.Content != "" {
		b.WriteString(wr.Content)
	} else {
		b.WriteString(theme.TextMuted.Render("(no page text extracted)"))
	}
	return Card{Tool: domain.ToolReadWebsite, Summary: summary, Detail: b.String()}
}

// orMuted returns s, or the muted fallback when s is empty.
func orMuted(s, fallback string) string {
	if s == "" {
		return theme.TextMuted.Render(fallback)
	}
	return s
}
