package utils

import (
	"regexp"
	"testing"
)

func TestExtractFencedBlock(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantOK      bool
		wantContent string
		wantRaw     string
	}{
		{
			name:        "JSON code block with json tag",
			input:       "Ecco:\n```json\n[{\"id\": \"1\"}]\n```",
			wantOK:      true,
			wantContent: `[{"id": "1"}]`,
			wantRaw:     "```json\n[{\"id\": \"1\"}]\n```",
		},
		{
			name:        "JSON code block without tag",
			input:       "```\n[1, 2]\n```",
			wantOK:      true,
			wantContent: `[1, 2]`,
			wantRaw:     "```\n[1, 2]\n```",
		},
		{
			name:        "First of two blocks",
			input:       "```[1]``` and ```[2]```",
			wantOK:      true,
			wantContent: `[1]`,
			wantRaw:     "```[1]```",
		},
		{
			name:   "No code block",
			input:  `[{"test": true}]`,
			wantOK: false,
		},
		{
			name:   "Unterminated fence",
			input:  "```json\n[1, 2]",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFencedBlock(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractFencedBlock() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Content != tt.wantContent {
				t.Errorf("Content = %q, want %q", got.Content, tt.wantContent)
			}
			if got.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.wantRaw)
			}
		})
	}
}

func TestExtractBracketSpan(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOK    bool
		wantStart int
		wantSpan  string
	}{
		{
			name:      "Array after prose",
			input:     `Here: [1, 2]`,
			wantOK:    true,
			wantStart: 6,
			wantSpan:  `[1, 2]`,
		},
		{
			name:      "Greedy last bracket",
			input:     `a [1] b [see note]`,
			wantOK:    true,
			wantStart: 2,
			wantSpan:  `[1] b [see note]`,
		},
		{
			name:   "Closing before opening",
			input:  `] then [`,
			wantOK: false,
		},
		{
			name:   "No brackets",
			input:  `plain text`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, span, ok := ExtractBracketSpan(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractBracketSpan() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart || span != tt.wantSpan {
				t.Errorf("ExtractBracketSpan() = (%d, %q), want (%d, %q)", start, span, tt.wantStart, tt.wantSpan)
			}
		})
	}
}

func TestStripTrailingLabel(t *testing.T) {
	pattern := regexp.MustCompile(`(?i)(?:Ecco|Here is)?\s*(?:il)?\s*(?:JSON|dati|data)[:\s-]*$`)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Italian label", input: "Ho trovato due case.\nEcco il JSON:\n", want: "Ho trovato due case."},
		{name: "English label", input: "Found two homes. Here is the data:", want: "Found two homes. Here is the"},
		{name: "Bare label", input: "Two homes. data -", want: "Two homes."},
		{name: "No label", input: "  Two homes.  ", want: "Two homes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTrailingLabel(tt.input, pattern); got != tt.want {
				t.Errorf("StripTrailingLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr bool
	}{
		{name: "Array of objects", input: `[{"id": "1"}, {"id": 2}]`, wantLen: 2},
		{name: "Empty array", input: `[]`, wantLen: 0},
		{name: "Object instead of array", input: `{"id": "1"}`, wantErr: true},
		{name: "Array of scalars", input: `[1, 2, 3]`, wantErr: true},
		{name: "Trailing comma", input: `[{"id": "1"},]`, wantErr: true},
		{name: "Trailing garbage", input: `[{"id": "1"}] ]`, wantErr: true},
		{name: "Null", input: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSONArray(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSONArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.wantLen {
				t.Errorf("DecodeJSONArray() len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdef", 3); got != "abc..." {
		t.Errorf("TruncateString() = %q", got)
	}
	if got := TruncateString("abc", 3); got != "abc" {
		t.Errorf("TruncateString() = %q", got)
	}
}
