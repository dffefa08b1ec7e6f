package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"genechat/internal/adapter/tui/theme"
	"genechat/internal/domain"
)

func pubmedCard(raw json.RawMessage, args callArgs) Card {
	var pr domain.PubMedResult
	if err := domain.DecodePayload(raw, &pr); err != nil {
		return genericCard(domain.ToolPubMed, raw)
	}

	query := pr.Query
	if query == "" {
		query = args.Query
	}

	if len(pr.Studies) == 0 {
		detail := "No studies matched the search."
		if query != "" {
			detail = fmt.Sprintf("No studies matched %q.", query)
		}
		return Card{
			Tool:    domain.ToolPubMed,
			Summary: "No studies found",
			Detail:  theme.TextMuted.Render(detail),
		}
	}

	summary := fmt.Sprintf("%d studies found", len(pr.Studies))
	if len(pr.Studies) == 1 {
		summary = "1 study found"
	}
	if query != "" {
		summary += fmt.Sprintf(" %q", query)
	}

	var b strings.Builder
	for i, s := range pr.Studies {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Bold.Render(orMuted(s.Title, "(untitled study)")))
		b.WriteString("\n")
		meta := joinNonEmpty(" • ", s.Journal, s.Year)
		if meta != "" {
			b.WriteString(theme.TextMuted.Render(meta))
			b.WriteString("\n")
		}
		if s.PMID != "" {
			b.WriteString(theme.TextInfo.Render("https://pubmed.ncbi.nlm.nih.gov/" + s.PMID + "/"))
			b.WriteString("\n")
		}
		if s.Summary != "" {
			b.WriteString(s.Summary)
			b.WriteString("\n")
		}
	}
	if pr.TotalCount > len(pr.Studies) {
		fmt.Fprintf(&b, "\n%s", theme.TextMuted.Render(
			fmt.Sprintf("Showing %d of %d results", len(pr.Studies), pr.TotalCount)))
	}

	return Card{Tool: domain.ToolPubMed, Summary: summary, Detail: strings.TrimRight(b.String(), "\n")}
}

func clinvarCard(raw json.RawMessage, args callArgs) Card {
	var cr domain.ClinVarResult
	if err := domain.DecodePayload(raw, &cr); err != nil {
		return genericCard(domain.ToolClinVar, raw)
	}

	if !cr.Found || len(cr.Variants) == 0 {
		msg := cr.Message
		if msg == "" {
			msg = "No variant records found"
			if args.Variant != "" {
				msg = fmt.Sprintf("No variant records found for %q", args.Variant)
			}
		}
		return Card{Tool: domain.ToolClinVar, Summary: msg, Detail: msg}
	}

	top := cr.Variants[0].ClinicalSignificance
	summary := fmt.Sprintf("%d variant(s) found", len(cr.Variants))
	if top != "" {
		summary += " " + theme.SymbolBullet + " " + top
	}

	var b strings.Builder
	for i, v := range cr.Variants {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Bold.Render(orMuted(v.Title, "(untitled variant)")))
		b.WriteString("\n")
		if v.ClinicalSignificance != "" {
			b.WriteString(classificationBadge(v.ClinicalSignificance))
			if v.IsFDARecognized {
				b.WriteString(" " + theme.TextInfo.Render("FDA-recognized"))
			}
			b.WriteString("\n")
		}
		if v.ReviewStatus != "" {
			fmt.Fprintf(&b, "%s %s\n", label("Review status:"), v.ReviewStatus)
		}
		if v.Accession != "" {
			fmt.Fprintf(&b, "%s %s\n", label("Accession:"), v.Accession)
		}
		if len(v.MolecularConsequences) > 0 {
			fmt.Fprintf(&b, "%s %s\n", label("Consequence:"), strings.Join(v.MolecularConsequences, ", "))
		}
		if len(v.AssociatedConditions) > 0 {
			names := make([]string, 0, len(v.AssociatedConditions))
			for _, c := range v.AssociatedConditions {
				if c.Name != "" {
					names = append(names, theme.TextAccent.Render("["+c.Name+"]"))
				}
			}
			if len(names) > 0 {
				fmt.Fprintf(&b, "%s %s\n", label("Conditions:"), strings.Join(names, " "))
			}
		}
		if len(v.AlleleFrequencies) > 0 {
			fmt.Fprintf(&b, "%s\n", label("Population frequencies:"))
			for _, f := range v.AlleleFrequencies {
				fmt.Fprintf(&b, "  %-12s %s", orMuted(f.Source, "(unknown)"), formatFrequency(f.Frequency))
				if f.MinorAllele != "" {
					fmt.Fprintf(&b, "  (%s)", f.MinorAllele)
				}
				b.WriteString("\n")
			}
		}
		if len(v.GenomicLocations) > 0 {
			fmt.Fprintf(&b, "%s\n", label("Genomic locations:"))
			for _, loc := range v.GenomicLocations {
				fmt.Fprintf(&b, "  %s chr%s:%d", orMuted(loc.Assembly, "(assembly?)"), loc.Chromosome, loc.Position)
				if loc.Cytogenetic != "" {
					fmt.Fprintf(&b, " (%s)", loc.Cytogenetic)
				}
				b.WriteString("\n")
			}
		}
		nClinical := len(v.SupportingSubmissions.Clinical)
		nReference := len(v.SupportingSubmissions.Reference)
		if nClinical > 0 || nReference > 0 {
			fmt.Fprintf(&b, "%s %d clinical, %d reference\n", label("Submissions:"), nClinical, nReference)
		}
	}

	return Card{Tool: domain.ToolClinVar, Summary: summary, Detail: strings.TrimRight(b.String(), "\n")}
}

func genomeCard(raw json.RawMessage, args callArgs) Card {
	var gr domain.GenomeBrowserResult
	if err := domain.DecodePayload(raw, &gr); err != nil {
		return genericCard(domain.ToolGenomeBrowser, raw)
	}

	gene := gr.Gene
	if gene == "" {
		gene = args.Gene
	}
	summary := joinNonEmpty(" "+theme.SymbolBullet+" ", gene, gr.Coordinates)
	if summary == "" {
		summary = "genome region"
	}

	var b strings.Builder
	if gr.Gene != "" {
		fmt.Fprintf(&b, "%s %s\n", label("Gene:"), theme.Bold.Render(gr.Gene))
	}
	if gr.Coordinates != "" {
		fmt.Fprintf(&b, "%s %s\n", label("Region:"), gr.Coordinates)
		fmt.Fprintf(&b, "%s %s\n", label("Browser:"), theme.TextInfo.Render(
			"https://genome.ucsc.edu/cgi-bin/hgTracks?db=hg38&position="+gr.CleanCoordinates()))
	}
	if len(gr.Variants) > 0 {
		fmt.Fprintf(&b, "%s\n", label("Variants:"))
		for _, v := range gr.Variants {
			fmt.Fprintf(&b, "  %s %s", theme.SymbolBullet, orMuted(v.Position, "(position?)"))
			if v.Allele != "" {
				fmt.Fprintf(&b, " %s %s", theme.SymbolArrowR, v.Allele)
			}
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		b.WriteString(theme.TextMuted.Render("(no region data)"))
	}

	return Card{Tool: domain.ToolGenomeBrowser, Summary: summary, Detail: strings.TrimRight(b.String(), "\n")}
}

// classificationBadge styles a clinical significance string by severity
// keyword: pathogenic reads as an alert, benign as reassuring, anything
// else stays muted.
func classificationBadge(significance string) string {
	lower := strings.ToLower(significance)
	switch {
	case strings.Contains(lower, "pathogenic"):
		return theme.TextError.Render("[" + significance + "]")
	case strings.Contains(lower, "benign"):
		return theme.TextSuccess.Render("[" + significance + "]")
	default:
		return theme.TextMuted.Render("[" + significance + "]")
	}
}

// formatFrequency renders an allele frequency in scientific notation, the
// convention for population frequencies which are often of order 1e-5.
func formatFrequency(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'e', 2, 64)
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
