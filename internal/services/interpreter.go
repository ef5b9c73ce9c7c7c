package services

import (
	"encoding/json"
	"strings"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

// InterpretResponse pulls the JSON object spanning the first "{" and the last
// "}" out of a model response. It never fails: anything that does not decode
// to an object is reported as no finding.
func InterpretResponse(text string) (models.StructuredFinding, bool) {
	jsonStr, ok := extractJSON(text)
	if !ok {
		return nil, false
	}

	var finding models.StructuredFinding
	if err := json.Unmarshal([]byte(jsonStr), &finding); err != nil {
		return nil, false
	}

	return finding, true
}

// extractJSON returns text[first "{" : last "}"+1]. Braces inside strings are
// not special, so a response with prose braces after the object will not
// decode.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
