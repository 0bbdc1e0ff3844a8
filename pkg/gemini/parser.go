package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// narrativeRecord is the structured payload the model is instructed to
// return.
type narrativeRecord struct {
	Narrative   string   `json:"narrative"`
	Options     []string `json:"options"`
	ImagePrompt string   `json:"imagePrompt"`
}

// ParseError is the typed parse failure feeding the fallback path.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("narrative payload: %s", e.Reason)
}

var (
	fenceOpenRegex  = regexp.MustCompile("(?i)^```(json)?")
	fenceCloseRegex = regexp.MustCompile("```$")
)

// cleanPayload strips an optional fenced-code-block wrapping around
// the JSON record.
func cleanPayload(text string) string {
	clean := strings.TrimSpace(text)
	clean = fenceOpenRegex.ReplaceAllString(clean, "")
	clean = fenceCloseRegex.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}

// parseNarrativePayload validates the model's text as a narrative
// record, producing either a well-formed record or a typed parse
// failure that feeds the fallback path deterministically. Missing
// fields inside an otherwise valid record get fixed placeholders.
func parseNarrativePayload(text string) (*narrativeRecord, *ParseError) {
	var record narrativeRecord
	if err := json.Unmarshal([]byte(cleanPayload(text)), &record); err != nil {
		return nil, &ParseError{Reason: err.Error(), Raw: text}
	}
	if record.Narrative == "" {
		record.Narrative = corruptedNarrative
	}
	if len(record.Options) == 0 {
		record.Options = defaultOptions
	}
	return &record, nil
}
