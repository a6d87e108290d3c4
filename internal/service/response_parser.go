package service

import (
	"fmt"

	"concierge/internal/model"
	"concierge/internal/utils"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// listingArraySchema describes the structured block the assistant appends to its narration.
// Optional fields accept null because the assistant copies SQL NULLs verbatim.
const listingArraySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id"],
		"properties": {
			"id":                   {"type": ["string", "integer"]},
			"title":                {"type": ["string", "null"]},
			"city":                 {"type": ["string", "null"]},
			"zone":                 {"type": ["string", "null"]},
			"address":              {"type": ["string", "null"]},
			"price":                {"type": ["number", "null"]},
			"main_image":           {"type": ["string", "null"]},
			"images":               {"type": ["array", "null"], "items": {"type": ["string", "null"]}},
			"rooms":                {"type": ["integer", "null"]},
			"bathrooms":            {"type": ["integer", "null"]},
			"sqm":                  {"type": ["number", "null"]},
			"floor":                {"type": ["integer", "null"]},
			"total_floors":         {"type": ["integer", "null"]},
			"elevator":             {"type": ["boolean", "null"]},
			"specs":                {"type": ["object", "null"]},
			"description_ai":       {"type": ["string", "null"]},
			"description_original": {"type": ["string", "null"]}
		}
	}
}`

var compiledListingSchema = jsonschema.MustCompileString("listings.json", listingArraySchema)

// ParsedResponse is an assistant response split into its two parts
type ParsedResponse struct {
	Narration string
	Listings  []model.Listing
}

// ResponseParser splits raw assistant output into narration and listings
type ResponseParser struct {
	locale Locale
	logger *zap.Logger
}

// NewResponseParser creates a parser for the given presentation variant
func NewResponseParser(locale Locale, logger *zap.Logger) *ResponseParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseParser{locale: locale, logger: logger}
}

// Parse never fails: on malformed input it returns the raw text and no listings.
//
// A fenced block wins over a bare array. When a fence is present but its contents do
// not parse, the bare-array strategy is not tried.
func (p *ResponseParser) Parse(raw string) ParsedResponse {
	if block, ok := utils.ExtractFencedBlock(raw); ok {
		listings, err := decodeListings(block.Content)
		if err != nil {
			p.logger.Debug("Fenced block is not a listing array", zap.Error(err))
			return ParsedResponse{Narration: raw}
		}
		return ParsedResponse{
			Narration: utils.RemoveFirst(raw, block.Raw),
			Listings:  listings,
		}
	}

	start, span, ok := utils.ExtractBracketSpan(raw)
	if !ok {
		return ParsedResponse{Narration: raw}
	}

	listings, err := decodeListings(span)
	if err != nil {
		p.logger.Debug("Bracketed span is not a listing array",
			zap.Error(err),
			zap.String("span", utils.TruncateString(span, 100)),
		)
		return ParsedResponse{Narration: raw}
	}

	return ParsedResponse{
		Narration: utils.StripTrailingLabel(raw[:start], p.locale.LabelPattern),
		Listings:  listings,
	}
}

// decodeListings strictly decodes and validates an array of listing records
func decodeListings(input string) ([]model.Listing, error) {
	items, err := utils.DecodeJSONArray(input)
	if err != nil {
		return nil, err
	}

	if err := compiledListingSchema.Validate(items); err != nil {
		return nil, fmt.Errorf("listing array failed validation: %w", err)
	}

	listings := make([]model.Listing, 0, len(items))
	if err := utils.Remarshal(items, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	for i := range listings {
		listings[i].Normalize()
	}

	return listings, nil
}
