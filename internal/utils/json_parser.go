package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// fencedBlockPattern matches the first markdown code fence, optionally labeled json.
// The lazy body makes the match stop at the nearest closing fence.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// FencedBlock is a markdown code fence found in AI output
type FencedBlock struct {
	Raw     string // the whole fence, markers included
	Content string // the trimmed interior
}

// ExtractFencedBlock returns the first code fence in input.
// Supports: ```json [...] ```, ```[...]```, or ```\n[...]\n```
func ExtractFencedBlock(input string) (FencedBlock, bool) {
	matches := fencedBlockPattern.FindStringSubmatch(input)
	if len(matches) < 2 {
		return FencedBlock{}, false
	}
	return FencedBlock{Raw: matches[0], Content: matches[1]}, true
}

// RemoveFirst removes the first occurrence of block from input and trims the result
func RemoveFirst(input, block string) string {
	return strings.TrimSpace(strings.Replace(input, block, "", 1))
}

// ExtractBracketSpan returns the substring from the first '[' to the last ']' inclusive,
// along with the index of the opening bracket.
// The closing bracket is the last one in the whole input, so trailing prose that contains
// a ']' ends up inside the span.
func ExtractBracketSpan(input string) (int, string, bool) {
	start := strings.Index(input, "[")
	end := strings.LastIndex(input, "]")
	if start == -1 || end <= start {
		return -1, "", false
	}
	return start, input[start : end+1], true
}

// StripTrailingLabel trims text and removes a trailing label phrase matched by pattern
func StripTrailingLabel(text string, pattern *regexp.Regexp) string {
	text = strings.TrimSpace(text)
	if pattern == nil {
		return text
	}
	return strings.TrimSpace(pattern.ReplaceAllString(text, ""))
}

// DecodeJSONArray strictly decodes input as a single JSON array of objects.
// Numbers are kept as json.Number so they survive schema validation untouched.
func DecodeJSONArray(input string) ([]interface{}, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "[") {
		return nil, fmt.Errorf("not a JSON array: %s", TruncateString(input, 40))
	}

	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()

	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after JSON array")
	}

	for i, item := range items {
		if _, ok := item.(map[string]interface{}); !ok {
			return nil, fmt.Errorf("element %d is not a JSON object", i)
		}
	}

	return items, nil
}

// Remarshal converts a decoded JSON value into target
func Remarshal(v interface{}, target interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// TruncateString truncates a string to maxLen bytes
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
