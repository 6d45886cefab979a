package services

import (
	"encoding/json"
	"regexp"
	"strings"
)

// SkillEntry is one skill as the model reports it. Type and Skill are free
// text and get normalized case-insensitively during reconciliation; Level
// is a composite label such as "Advanced (80%)".
type SkillEntry struct {
	Type  string `json:"type"`
	Skill string `json:"skill"`
	Level string `json:"level"`
}

// ExtractedPayload is the transient structured result of parsing one model
// response. It is consumed once by the field writer and the reconciler,
// never persisted as-is.
type ExtractedPayload struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone"`
	Linkedin string       `json:"linkedin"`
	Degree   string       `json:"degree"`
	Skills   []SkillEntry `json:"skills"`
}

var fencedJSONPattern = regexp.MustCompile("(?s)```json\n(.*?)\n```")

// ParseExtraction pulls a JSON payload out of a raw model response. The
// model is asked for bare JSON but routinely wraps it in markdown fences or
// prose, so: prefer the interior of a ```json fence, otherwise take the
// first '{' through the last '}' of the text. Decoding is strict; a
// malformed payload is a hard failure carrying the raw text, never a
// partial result.
func ParseExtraction(raw string) (*ExtractedPayload, error) {
	var candidate string

	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end == -1 || end < start {
			return nil, &ParseError{Reason: "no JSON object found in response", Raw: raw}
		}
		candidate = raw[start : end+1]
	}

	var payload ExtractedPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &payload); err != nil {
		return nil, &ParseError{
			Reason: "response could not be parsed as JSON (" + err.Error() + ")",
			Raw:    raw,
		}
	}

	return &payload, nil
}
