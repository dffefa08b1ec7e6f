package backend

import (
	"encoding/json"
	"log/slog"

	"github.com/kaptinlin/jsonschema"

	"genechat/internal/domain"
)

// Per-tool result schemas. Every field is optional on the wire, so the
// schemas only reject payloads whose present fields have the wrong shape.
var resultSchemas = map[string]string{
	domain.ToolWeather: `{
		"type": "object",
		"properties": {
			"coordinates": {
				"type": "object",
				"properties": {
					"lat": {"type": "number"},
					"lon": {"type": "number"}
				}
			},
			"temperature": {"type": "number"},
			"unit": {"type": "string"},
			"elevation": {"type": "number"}
		}
	}`,
	domain.ToolTime: `{
		"type": "object",
		"properties": {
			"timezone": {"type": "string"},
			"time": {"type": "string"}
		}
	}`,
	domain.ToolWebSearch: `{
		"type": "object",
		"properties": {
			"query": {"type": "string"},
			"results": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"title": {"type": "string"},
						"link": {"type": "string"},
						"snippet": {"type": "string"}
					}
				}
			}
		}
	}`,
	domain.ToolPubMed: `{
		"type": "object",
		"properties": {
			"studies": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"title": {"type": "string"},
						"journal": {"type": "string"},
						"year": {"type": ["integer", "string"]},
						"summary": {"type": "string"},
						"pmid": {"type": ["integer", "string"]}
					}
				}
			},
			"total_count": {"type": "integer"},
			"showing": {"type": "integer"},
			"query": {"type": "string"}
		}
	}`,
	domain.ToolReadWebsite: `{
		"type": "object",
		"properties": {
			"url": {"type": "string"},
			"content": {"type": "string"},
			"title": {"type": "string"},
			"description": {"type": "string"},
			"language": {"type": "string"}
		}
	}`,
	domain.ToolGenomeBrowser: `{
		"type": "object",
		"properties": {
			"gene": {"type": "string"},
			"coordinates": {"type": "string"},
			"variants": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"position": {"type": "string"},
						"allele": {"type": "string"}
					}
				}
			}
		}
	}`,
	domain.ToolClinVar: `{
		"type": "object",
		"properties": {
			"found": {"type": "boolean"},
			"message": {"type": "string"},
			"total_results": {"type": "integer"},
			"variants": {
				"type": "array",
				"items": {"type": "object"}
			}
		}
	}`,
}

// ResultValidator checks tool result payloads against per-tool schemas at
// the trust boundary. A failing payload is never an error for the turn; the
// entry is demoted so the renderer falls back to a structured dump.
type ResultValidator struct {
	schemas map[string]*jsonschema.Schema
	logger  *slog.Logger
}

// NewResultValidator compiles the per-tool schemas. Tools whose schema fails
// to compile are skipped (their payloads pass through unchecked).
func NewResultValidator(logger *slog.Logger) *ResultValidator {
	compiler := jsonschema.NewCompiler()
	schemas := make(map[string]*jsonschema.Schema, len(resultSchemas))
	for tool, src := range resultSchemas {
		schema, err := compiler.Compile([]byte(src))
		if err != nil {
			logger.Warn("tool result schema failed to compile", "tool", tool, "error", err)
			continue
		}
		schemas[tool] = schema
	}
	return &ResultValidator{schemas: schemas, logger: logger}
}

// Demote validates each tool_result payload in place. Entries whose payload
// does not match the schema for their tool lose their tool name, which routes
// them to the generic renderer.
func (v *ResultValidator) Demote(entries []domain.Entry) {
	for i := range entries {
		e := &entries[i]
		if !e.IsToolResult() || len(e.Result) == 0 {
			continue
		}
		schema, ok := v.schemas[e.Tool]
		if !ok {
			continue
		}

		var payload any
		if err := json.Unmarshal(e.Result, &payload); err != nil {
			v.logger.Warn("tool result is not valid JSON", "tool", e.Tool, "error", err)
			e.Tool = ""
			continue
		}
		if result := schema.Validate(payload); !result.IsValid() {
			v.logger.Warn("tool result failed schema validation", "tool", e.Tool)
			e.Tool = ""
		}
	}
}
