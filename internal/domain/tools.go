package domain

import (
	"encoding/json"
	"strings"
)

// Known tool names as produced by the backend. The set is extensible:
// entries naming any other tool still render through the generic path.
const (
	ToolWeather       = "get_weather"
	ToolTime          = "get_time"
	ToolWebSearch     = "google_search"
	ToolPubMed        = "get_pubmed_studies"
	ToolReadWebsite   = "read_website"
	ToolGenomeBrowser = "genome_browser"
	ToolClinVar       = "clinvar_lookup"
)

// KnownTool reports whether name is one of the tools this client renders
// with a dedicated card.
func KnownTool(name string) bool {
	switch name {
	case ToolWeather, ToolTime, ToolWebSearch, ToolPubMed,
		ToolReadWebsite, ToolGenomeBrowser, ToolClinVar:
		return true
	}
	return false
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherResult is the get_weather payload.
type WeatherResult struct {
	Coordinates Coordinates `json:"coordinates"`
	Temperature float64     `json:"temperature"`
	Unit        string      `json:"unit"`
	Elevation   float64     `json:"elevation"`
}

// UnitSymbol returns the display symbol for the temperature unit:
// "celsius" maps to °C, anything else to °F.
func (w WeatherResult) UnitSymbol() string {
	if strings.EqualFold(w.Unit, "celsius") {
		return "°C"
	}
	return "°F"
}

// TimeResult is the get_time payload. Time is an RFC 3339 timestamp.
type TimeResult struct {
	Timezone string `json:"timezone"`
	Time     string `json:"time"`
}

// SearchHit is one web search result.
type SearchHit struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SearchResult is the google_search payload.
type SearchResult struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// Study is one PubMed study record.
type Study struct {
	Title   string `json:"title"`
	Journal string `json:"journal"`
	Year    string `json:"year"`
	Summary string `json:"summary"`
	PMID    string `json:"pmid"`
}

// PubMedResult is the get_pubmed_studies payload.
type PubMedResult struct {
	Studies    []Study `json:"studies"`
	TotalCount int     `json:"total_count"`
	Showing    int     `json:"showing"`
	Query      string  `json:"query"`
}

// WebsiteResult is the read_website payload.
type WebsiteResult struct {
	URL         string `json:"url"`
	Content     string `json:"content"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// GenomeVariant is a variant position within a genome_browser payload.
// Position follows the same human-readable convention as Coordinates
// ("43,057,051"), so it stays a string on the wire.
type GenomeVariant struct {
	Position string `json:"position"`
	Allele   string `json:"allele"`
}

// GenomeBrowserResult is the genome_browser payload. Coordinates use the
// human-readable form with thousands separators, e.g.
// "chr17:43,044,295-43,125,364".
type GenomeBrowserResult struct {
	Gene        string          `json:"gene"`
	Coordinates string          `json:"coordinates"`
	Variants    []GenomeVariant `json:"variants"`
}

// CleanCoordinates returns the coordinate string with thousands separators
// stripped, the form genome browsers accept in position URLs.
func (g GenomeBrowserResult) CleanCoordinates() string {
	return strings.ReplaceAll(g.Coordinates, ",", "")
}

// AlleleFrequency is one population frequency observation for a variant.
type AlleleFrequency struct {
	Source      string  `json:"source"`
	Frequency   float64 `json:"frequency"`
	MinorAllele string  `json:"minor_allele"`
}

// GenomicLocation places a variant on an assembly.
type GenomicLocation struct {
	Assembly    string `json:"assembly"`
	Chromosome  string `json:"chromosome"`
	Position    int    `json:"position"`
	Cytogenetic string `json:"cytogenetic"`
}

// ConditionRef is a condition associated with a variant, with database
// cross-references.
type ConditionRef struct {
	Name        string `json:"name"`
	Identifiers []struct {
		Source string `json:"source"`
		ID     string `json:"id"`
	} `json:"identifiers"`
}

// Submissions counts the ClinVar submission records backing a variant.
type Submissions struct {
	Clinical  []string `json:"clinical"`
	Reference []string `json:"reference"`
}

// ClinVarVariant is one variant record from a clinvar_lookup payload.
type ClinVarVariant struct {
	VariantID             string            `json:"variant_id"`
	Accession             string            `json:"accession"`
	Title                 string            `json:"title"`
	ClinicalSignificance  string            `json:"clinical_significance"`
	LastEvaluated         string            `json:"last_evaluated"`
	ReviewStatus          string            `json:"review_status"`
	IsFDARecognized       bool              `json:"is_fda_recognized"`
	MolecularConsequences []string          `json:"molecular_consequences"`
	AlleleFrequencies     []AlleleFrequency `json:"allele_frequencies"`
	GenomicLocations      []GenomicLocation `json:"genomic_locations"`
	AssociatedConditions  []ConditionRef    `json:"associated_conditions"`
	SupportingSubmissions Submissions       `json:"supporting_submissions"`
}

// ClinVarResult is the clinvar_lookup payload. When Found is false only
// Message is meaningful.
type ClinVarResult struct {
	Found        bool             `json:"found"`
	Message      string           `json:"message"`
	Variants     []ClinVarVariant `json:"variants"`
	TotalResults int              `json:"total_results"`
}

// DecodePayload unmarshals a tool payload into dst, tolerating nil and
// empty payloads. Any field the backend omits stays at its zero value;
// callers must treat every field as optional.
func DecodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
