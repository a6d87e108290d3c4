package service

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestParser() *ResponseParser {
	return NewResponseParser(LocaleIT, zap.NewNop())
}

func TestResponseParser_Parse(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantNarration string
		wantIDs       []string
	}{
		{
			name:          "Fenced json block",
			input:         "Ecco alcuni immobili:\n```json\n[{\"id\":\"1\",\"title\":\"Loft\",\"price\":250000}]\n```",
			wantNarration: "Ecco alcuni immobili:",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Fenced block without label, text on both sides",
			input:         "Prima.\n```\n[{\"id\":\"a\"},{\"id\":\"b\"}]\n```\nDopo.",
			wantNarration: "Prima.\n\nDopo.",
			wantIDs:       []string{"a", "b"},
		},
		{
			name:          "Only the first fence is used",
			input:         "Uno ```json\n[{\"id\":\"1\"}]\n``` due ```json\n[{\"id\":\"2\"}]\n```",
			wantNarration: "Uno  due ```json\n[{\"id\":\"2\"}]\n```",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Bare array with Italian label",
			input:         "Ho trovato una casa. Ecco il JSON:\n[{\"id\":\"1\",\"rooms\":3}]",
			wantNarration: "Ho trovato una casa.",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Bare array with English label",
			input:         "I found one home. Here is the data:\n[{\"id\":7}]",
			wantNarration: "I found one home.",
			wantIDs:       []string{"7"},
		},
		{
			name:          "Article inside a narration word is kept",
			input:         "Questi sono i miei dati:\n[{\"id\":\"1\"}]",
			wantNarration: "Questi sono i miei",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Word ending in i before the label is kept",
			input:         "Ho trovato questi dati\n[{\"id\":\"1\"}]",
			wantNarration: "Ho trovato questi",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Italian plural article label",
			input:         "Due soluzioni. Ecco i dati:\n[{\"id\":\"1\"}]",
			wantNarration: "Due soluzioni.",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Bare array, text after array is dropped",
			input:         "Due case\n[{\"id\":\"1\"},{\"id\":\"2\"}]\nfammi sapere",
			wantNarration: "Due case",
			wantIDs:       []string{"1", "2"},
		},
		{
			name:          "Bare array at end",
			input:         "Due case\n[{\"id\":\"1\"},{\"id\":\"2\"}]",
			wantNarration: "Due case",
			wantIDs:       []string{"1", "2"},
		},
		{
			name:          "Trailing bracket in prose is absorbed",
			input:         "Ecco: [{\"id\":\"1\"}] (vedi nota [1])",
			wantNarration: "Ecco: [{\"id\":\"1\"}] (vedi nota [1])",
		},
		{
			name:          "Malformed fenced block does not fall back",
			input:         "Testo\n```json\n[{\"id\":\"1\",]\n```\n[{\"id\":\"2\"}]",
			wantNarration: "Testo\n```json\n[{\"id\":\"1\",]\n```\n[{\"id\":\"2\"}]",
		},
		{
			name:          "Unmatched brackets",
			input:         "Prezzo ] poi [ niente",
			wantNarration: "Prezzo ] poi [ niente",
		},
		{
			name:          "Plain greeting",
			input:         "Ciao! Come posso aiutarti?",
			wantNarration: "Ciao! Come posso aiutarti?",
		},
		{
			name:          "Records without id are rejected",
			input:         "```json\n[{\"title\":\"Loft\"}]\n```",
			wantNarration: "```json\n[{\"title\":\"Loft\"}]\n```",
		},
		{
			name:          "Wrongly typed field is rejected",
			input:         "```json\n[{\"id\":\"1\",\"price\":\"tanti soldi\"}]\n```",
			wantNarration: "```json\n[{\"id\":\"1\",\"price\":\"tanti soldi\"}]\n```",
		},
		{
			name:          "Null optional fields are accepted",
			input:         "Trovato.\n```json\n[{\"id\":\"1\",\"address\":null,\"floor\":null,\"specs\":null}]\n```",
			wantNarration: "Trovato.",
			wantIDs:       []string{"1"},
		},
		{
			name:          "Empty fenced array",
			input:         "Nessun risultato.\n```json\n[]\n```",
			wantNarration: "Nessun risultato.",
		},
	}

	parser := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.input)

			if got.Narration != tt.wantNarration {
				t.Errorf("Narration = %q, want %q", got.Narration, tt.wantNarration)
			}
			if len(got.Listings) != len(tt.wantIDs) {
				t.Fatalf("Listings len = %d, want %d", len(got.Listings), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if string(got.Listings[i].ID) != id {
					t.Errorf("Listings[%d].ID = %q, want %q", i, got.Listings[i].ID, id)
				}
			}
		})
	}
}

func TestResponseParser_FullRecord(t *testing.T) {
	input := "Ho trovato ottime soluzioni per te.\n```json\n" + `[
  {
    "id": "uuid-1",
    "title": "Trilocale Isola",
    "city": "Milano",
    "zone": "Isola",
    "address": "Via Borsieri 10",
    "price": 450000,
    "main_image": "https://img/main.jpg",
    "images": [],
    "rooms": 3,
    "bathrooms": 2,
    "sqm": 95.5,
    "floor": 2,
    "total_floors": 5,
    "elevator": true,
    "specs": {"heating": "Autonomo", "state": "Buono", "contract": "Vendita"},
    "description_ai": "Luminoso"
  }
]` + "\n```"

	got := newTestParser().Parse(input)
	if len(got.Listings) != 1 {
		t.Fatalf("Listings len = %d, want 1", len(got.Listings))
	}

	l := got.Listings[0]
	if l.Title != "Trilocale Isola" || l.City != "Milano" || l.Zone != "Isola" {
		t.Errorf("Unexpected display fields: %+v", l)
	}
	if l.Address == nil || *l.Address != "Via Borsieri 10" {
		t.Errorf("Address = %v", l.Address)
	}
	if l.Price != 450000 || l.Rooms != 3 || l.Bathrooms != 2 || l.Sqm != 95.5 {
		t.Errorf("Unexpected numeric fields: %+v", l)
	}
	if l.Floor == nil || *l.Floor != 2 || l.TotalFloors == nil || *l.TotalFloors != 5 {
		t.Errorf("Unexpected floors: %v / %v", l.Floor, l.TotalFloors)
	}
	if l.Elevator == nil || !*l.Elevator {
		t.Errorf("Elevator = %v", l.Elevator)
	}
	if len(l.Images) != 1 || l.Images[0] != "https://img/main.jpg" {
		t.Errorf("Images = %v, want main image fallback", l.Images)
	}
	if l.Heating() != "Autonomo" || l.Contract() != "Vendita" {
		t.Errorf("Specs = %v", l.Specs)
	}
	if l.Specs.String("state") != "Buono" {
		t.Errorf("Expected unknown spec keys to be kept, got %v", l.Specs)
	}
	if got.Narration != "Ho trovato ottime soluzioni per te." {
		t.Errorf("Narration = %q", got.Narration)
	}
}

func TestResponseParser_NarrationExcludesBlock(t *testing.T) {
	block := "```json\n[{\"id\":\"x\"}]\n```"
	inputs := []string{
		"Intro " + block,
		block + " outro",
		"a\n" + block + "\nb",
	}

	parser := newTestParser()
	for _, input := range inputs {
		got := parser.Parse(input)
		if strings.Contains(got.Narration, block) {
			t.Errorf("Narration %q still contains the fenced block", got.Narration)
		}
		if len(got.Listings) != 1 {
			t.Errorf("Parse(%q) listings = %d, want 1", input, len(got.Listings))
		}
	}
}
