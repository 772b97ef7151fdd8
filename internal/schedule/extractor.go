package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lumee/lumee-platform/pkg/llm"
)

// Extractor enriches calendar entries with a forecast-ready region string.
// Free-text places ("스타벅스 강남점") are mapped to administrative regions
// ("서울 강남구") by the LLM; entries the model cannot place stay
// unresolved and keep whatever raw location they had.
type Extractor struct {
	client llm.Client
	model  string
	logger *slog.Logger
}

// NewExtractor creates a new schedule location extractor
func NewExtractor(client llm.Client, model string, logger *slog.Logger) *Extractor {
	return &Extractor{
		client: client,
		model:  model,
		logger: logger,
	}
}

// resolvedLocation is one entry of the model's JSON answer
type resolvedLocation struct {
	Index    int    `json:"index"`
	Location string `json:"location"`
}

// ResolveLocations returns a copy of entries with ResolvedLocation filled
// in where the model could infer a region. Any failure (LLM down, garbage
// output) degrades to the input entries unchanged; enrichment is
// best-effort and never blocks the schedule pipeline.
func (e *Extractor) ResolveLocations(ctx context.Context, entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}

	req := llm.DefaultGenerateRequest(e.model, e.buildPrompt(entries))
	// The answer is a JSON array; Ollama's json format mode only
	// guarantees an object, so parsing handles fenced output instead.
	req.Format = ""

	resp, err := e.client.Generate(ctx, req)
	if err != nil {
		e.logger.Error("Location extraction LLM call failed", "error", err)
		return entries
	}

	resolved, err := parseResolvedLocations(resp.Response)
	if err != nil {
		e.logger.Warn("Location extraction response unparseable, keeping entries unenriched",
			"error", err)
		return entries
	}

	enriched := make([]Entry, len(entries))
	copy(enriched, entries)

	for _, r := range resolved {
		if r.Index < 0 || r.Index >= len(enriched) || r.Location == "" {
			continue
		}
		enriched[r.Index].ResolvedLocation = r.Location
	}

	e.logger.Debug("Schedule locations resolved",
		"entries", len(entries),
		"resolved", len(resolved))

	return enriched
}

// buildPrompt lists the entries with stable indices and asks for a strict
// JSON array answer
func (e *Extractor) buildPrompt(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("You are an assistant that extracts a forecast location for calendar events.\n")
	sb.WriteString("For each event below, infer the administrative region (city/district level, e.g. \"서울 강남구\", \"부산 해운대구\") from the place or the title.\n")
	sb.WriteString("Skip online meetings and events whose location cannot be inferred.\n")
	sb.WriteString("Answer with ONLY a JSON array, no markdown, in the form:\n")
	sb.WriteString(`[{"index": 0, "location": "서울 강남구"}]` + "\n\n")
	sb.WriteString("Events:\n")

	for i, entry := range entries {
		place := entry.RawLocation
		if place == "" {
			place = "(none)"
		}
		fmt.Fprintf(&sb, "ID: %d\n- title: %s\n- place: %s\n- start: %s\n\n",
			i, entry.Title, place, entry.Start)
	}

	return sb.String()
}

// parseResolvedLocations tolerates markdown code fences around the array
func parseResolvedLocations(response string) ([]resolvedLocation, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var resolved []resolvedLocation
	if err := json.Unmarshal([]byte(cleaned), &resolved); err != nil {
		return nil, fmt.Errorf("failed to parse location array: %w", err)
	}

	return resolved, nil
}
