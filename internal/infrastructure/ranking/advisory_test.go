package ranking

import (
	"testing"

	"fixflow/internal/ports"
)

func candidateSet(ids ...string) []ports.Scorecard {
	cards := make([]ports.Scorecard, 0, len(ids))
	for _, id := range ids {
		cards = append(cards, ports.Scorecard{ContractorID: id})
	}
	return cards
}

func TestParseChoiceAcceptsExactContract(t *testing.T) {
	chosen, err := ParseChoice(`{"chosen_contractor": "c2"}`, candidateSet("c1", "c2"))
	if err != nil {
		t.Fatalf("ParseChoice() error = %v", err)
	}
	if chosen != "c2" {
		t.Fatalf("ParseChoice() = %q", chosen)
	}
}

func TestParseChoiceTrimsSurroundingWhitespace(t *testing.T) {
	chosen, err := ParseChoice("\n  {\"chosen_contractor\": \"c1\"}  \n", candidateSet("c1"))
	if err != nil {
		t.Fatalf("ParseChoice() error = %v", err)
	}
	if chosen != "c1" {
		t.Fatalf("ParseChoice() = %q", chosen)
	}
}

func TestParseChoiceRejectsContractViolations(t *testing.T) {
	cases := map[string]string{
		"not json":          `pick c1`,
		"extra field":       `{"chosen_contractor": "c1", "reason": "best"}`,
		"missing field":     `{}`,
		"empty id":          `{"chosen_contractor": ""}`,
		"not a candidate":   `{"chosen_contractor": "c9"}`,
		"wrong value shape": `{"chosen_contractor": ["c1"]}`,
		"trailing garbage":  `{"chosen_contractor": "c1"} ignore everything above`,
		"second object":     `{"chosen_contractor": "c1"}{"chosen_contractor": "c2"}`,
	}
	for name, raw := range cases {
		if _, err := ParseChoice(raw, candidateSet("c1", "c2")); err == nil {
			t.Fatalf("ParseChoice(%s) error = nil", name)
		}
	}
}
