package intake

import "strings"

// Classification is the structured result of analyzing a clinical note.
type Classification struct {
	DiseaseName string `json:"disease_name"`
	RiskLevel   string `json:"risk_level"`
	Suggestion  string `json:"suggestion"`
	RawOutput   string `json:"raw_output"`
}

// ParseClassification parses structured model output of the form
//
//	Disease Name: ...
//	Risk Level: ...
//	Suggestion: ...
//
// Fields may appear in any order; for repeated fields the first occurrence
// wins. Output starting with the not-applicable sentinel maps to
// ErrNotApplicable. Missing or "N/A" fields, and a risk level that does not
// normalize to Low, Moderate or High, map to ErrInvalidClassification.
func ParseClassification(output string) (*Classification, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil, ErrNotApplicable
	}
	if strings.HasPrefix(trimmed, "The document is not related") {
		return nil, ErrNotApplicable
	}

	c := &Classification{RawOutput: trimmed}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Disease Name:"):
			if c.DiseaseName == "" {
				c.DiseaseName = fieldValue(line)
			}
		case strings.HasPrefix(line, "Risk Level:"):
			if c.RiskLevel == "" {
				c.RiskLevel = normalizeRisk(fieldValue(line))
			}
		case strings.HasPrefix(line, "Suggestion:"):
			if c.Suggestion == "" {
				c.Suggestion = fieldValue(line)
			}
		}
	}

	if c.DiseaseName == "" || c.Suggestion == "" ||
		strings.EqualFold(c.DiseaseName, "n/a") || strings.EqualFold(c.Suggestion, "n/a") {
		return nil, ErrInvalidClassification
	}
	// Only the canonical labels may reach the patient record.
	switch c.RiskLevel {
	case "Low", "Moderate", "High":
	default:
		return nil, ErrInvalidClassification
	}
	return c, nil
}

func fieldValue(line string) string {
	_, v, _ := strings.Cut(line, ":")
	return strings.TrimSpace(v)
}

func normalizeRisk(v string) string {
	switch strings.ToLower(v) {
	case "low":
		return "Low"
	case "moderate", "medium":
		return "Moderate"
	case "high":
		return "High"
	default:
		return v
	}
}
