package domain

import (
	"encoding/json"
	"testing"
)

func TestKnownTool(t *testing.T) {
	for _, name := range []string{
		ToolWeather, ToolTime, ToolWebSearch, ToolPubMed,
		ToolReadWebsite, ToolGenomeBrowser, ToolClinVar,
	} {
		if !KnownTool(name) {
			t.Errorf("KnownTool(%q) = false", name)
		}
	}
	if KnownTool("launch_rockets") {
		t.Error("unknown tool reported as known")
	}
}

func TestDecodePayloadWeather(t *testing.T) {
	raw := json.RawMessage(`{"coordinates":{"lat":42.36,"lon":-71.06},"temperature":21.5,"unit":"celsius","elevation":43}`)

	var w WeatherResult
	if err := DecodePayload(raw, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Temperature != 21.5 || w.Coordinates.Lat != 42.36 {
		t.Errorf("got %+v", w)
	}
	if sym := w.UnitSymbol(); sym != "°C" {
		t.Errorf("UnitSymbol() = %q, want °C", sym)
	}

	w.Unit = "fahrenheit"
	if sym := w.UnitSymbol(); sym != "°F" {
		t.Errorf("UnitSymbol() = %q, want °F", sym)
	}
}

func TestDecodePayloadNilAndPartial(t *testing.T) {
	var s PubMedResult
	if err := DecodePayload(nil, &s); err != nil {
		t.Fatalf("nil payload: %v", err)
	}
	if s.Studies != nil || s.TotalCount != 0 {
		t.Errorf("zero value expected, got %+v", s)
	}

	// Missing fields stay at their zero values.
	if err := DecodePayload(json.RawMessage(`{"total_count":3}`), &s); err != nil {
		t.Fatalf("partial payload: %v", err)
	}
	if s.TotalCount != 3 || len(s.Studies) != 0 {
		t.Errorf("got %+v", s)
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	var w WeatherResult
	if err := DecodePayload(json.RawMessage(`{"temperature":"warm"`), &w); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestCleanCoordinates(t *testing.T) {
	g := GenomeBrowserResult{Gene: "BRCA1", Coordinates: "chr17:43,044,295-43,125,364"}
	if got := g.CleanCoordinates(); got != "chr17:43044295-43125364" {
		t.Errorf("CleanCoordinates() = %q", got)
	}
}

func TestDecodePayloadGenomeBrowser(t *testing.T) {
	raw := json.RawMessage(`{
		"gene": "BRCA1",
		"coordinates": "chr17:43,044,295-43,125,364",
		"variants": [{"position": "43,057,051", "allele": "A"}]
	}`)

	var g GenomeBrowserResult
	if err := DecodePayload(raw, &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(g.Variants) != 1 {
		t.Fatalf("got %+v", g)
	}
	// Variant positions keep the thousands separators, same as Coordinates.
	if g.Variants[0].Position != "43,057,051" || g.Variants[0].Allele != "A" {
		t.Errorf("variant = %+v", g.Variants[0])
	}
}

func TestDecodePayloadClinVar(t *testing.T) {
	raw := json.RawMessage(`{
		"found": true,
		"total_results": 1,
		"variants": [{
			"variant_id": "55601",
			"accession": "VCV000055601",
			"title": "NM_007294.4(BRCA1):c.5096G>A (p.Arg1699Gln)",
			"clinical_significance": "Pathogenic",
			"review_status": "reviewed by expert panel",
			"is_fda_recognized": true,
			"allele_frequencies": [{"source":"gnomAD","frequency":0.0000124,"minor_allele":"A"}],
			"genomic_locations": [{"assembly":"GRCh38","chromosome":"17","position":43067608,"cytogenetic":"17q21.31"}],
			"associated_conditions": [{"name":"Breast-ovarian cancer","identifiers":[{"source":"OMIM","id":"604370"}]}],
			"supporting_submissions": {"clinical": ["SCV000074585", "SCV000109288"], "reference": ["RCV000048420"]}
		}]
	}`)

	var cv ClinVarResult
	if err := DecodePayload(raw, &cv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !cv.Found || cv.TotalResults != 1 || len(cv.Variants) != 1 {
		t.Fatalf("got %+v", cv)
	}
	v := cv.Variants[0]
	if v.ClinicalSignificance != "Pathogenic" || !v.IsFDARecognized {
		t.Errorf("variant = %+v", v)
	}
	if len(v.AlleleFrequencies) != 1 || v.AlleleFrequencies[0].Source != "gnomAD" {
		t.Errorf("allele frequencies = %+v", v.AlleleFrequencies)
	}
	if len(v.SupportingSubmissions.Clinical) != 2 || len(v.SupportingSubmissions.Reference) != 1 {
		t.Errorf("submissions = %+v", v.SupportingSubmissions)
	}
}
