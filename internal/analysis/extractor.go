package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// jsonBlockPattern locates the first {...} block in free-form model output,
// non-greedy, newlines allowed. Models regularly wrap the requested JSON in
// prose ("Sure! Here are the names: {...}"), so the scan is deliberate
// rather than an ad hoc split.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// extractedNames mirrors the JSON object the name-extraction prompt asks for
type extractedNames struct {
	AgentName    string `json:"agent_name"`
	CustomerName string `json:"customer_name"`
}

// ExtractNames pulls the agent and customer names out of free-form model
// text. Total function: on a missing or unparsable JSON block both names
// fall back to "Unknown" and ok is false so the caller can surface a
// diagnostic alongside the raw text. Values are whitespace-trimmed; empty
// values also fall back to "Unknown".
func ExtractNames(raw string) (agent, customer string, ok bool) {
	block := jsonBlockPattern.FindString(raw)
	if block == "" {
		return unknownName, unknownName, false
	}

	var names extractedNames
	if err := json.Unmarshal([]byte(block), &names); err != nil {
		return unknownName, unknownName, false
	}

	agent = strings.TrimSpace(names.AgentName)
	customer = strings.TrimSpace(names.CustomerName)
	if agent == "" {
		agent = unknownName
	}
	if customer == "" {
		customer = unknownName
	}
	return agent, customer, true
}

// CleanLabel trims surrounding whitespace from a single-token classification
// answer (satisfaction, sentiment). The value is otherwise accepted as-is;
// enum membership is enforced only at the store boundary.
func CleanLabel(raw string) string {
	return strings.TrimSpace(raw)
}

// CleanText trims surrounding whitespace from free-text facet output
// (improvements, attention areas, critique), which is otherwise persisted or
// displayed verbatim.
func CleanText(raw string) string {
	return strings.TrimSpace(raw)
}
