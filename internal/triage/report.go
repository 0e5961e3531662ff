package triage

import (
	"strings"

	"clinic-portal-server/internal/models"
)

// Report is the format-agnostic triage output: an ordered list of sections a
// rendering layer can turn into text, HTML or PDF. The engine never emits
// markup.
type Report struct {
	Urgency  models.UrgencyLevel `json:"urgency"`
	Sections []Section           `json:"sections"`
}

// Section is one block of the report.
type Section struct {
	Heading string   `json:"heading"`
	Body    string   `json:"body,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// RenderText renders the report as plain text, the form persisted with the
// check and returned to API callers.
func (r Report) RenderText() string {
	var b strings.Builder
	for i, section := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.Heading)
		b.WriteString("\n")
		if section.Body != "" {
			b.WriteString(section.Body)
			b.WriteString("\n")
		}
		for _, item := range section.Items {
			b.WriteString("- ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// urgency verdicts, fixed per level.
var urgencyVerdicts = map[models.UrgencyLevel]string{
	models.UrgencyRoutine:   "Your symptoms appear routine. Book a regular appointment at your convenience.",
	models.UrgencyUrgent:    "Your symptoms should be assessed soon. Please book an appointment within the next 24-48 hours.",
	models.UrgencyEmergency: "Your symptoms may indicate a medical emergency. Call emergency services or go to the nearest emergency department now.",
}

// selfCareByCategory holds the fixed self-care advice branches, keyed by
// scope category (lowercase).
var selfCareByCategory = map[string][]string{
	"respiratory":      {"Rest and stay hydrated", "Avoid smoke and other airway irritants", "Use a humidifier if the air is dry"},
	"gastrointestinal": {"Take small sips of clear fluids", "Avoid solid food until vomiting settles", "Reintroduce bland foods gradually"},
	"musculoskeletal":  {"Rest the affected area", "Apply ice for 15-20 minutes at a time", "Avoid lifting or straining"},
	"neurological":     {"Rest in a quiet, dark room", "Keep a note of when episodes occur", "Avoid driving until assessed"},
	"dermatological":   {"Keep the area clean and dry", "Avoid scratching", "Use fragrance-free moisturizer"},
	"cardiovascular":   {"Stop all physical exertion", "Sit or lie down and stay calm", "Do not drive yourself to hospital"},
	"general":          {"Rest and monitor your symptoms", "Stay hydrated", "Keep a symptom diary to share with your doctor"},
}

func selfCareAdvice(categories []string) []string {
	seen := make(map[string]bool)
	var advice []string
	for _, category := range categories {
		lines, ok := selfCareByCategory[strings.ToLower(category)]
		if !ok {
			continue
		}
		for _, line := range lines {
			if !seen[line] {
				seen[line] = true
				advice = append(advice, line)
			}
		}
	}
	if len(advice) == 0 {
		advice = append(advice, selfCareByCategory["general"]...)
	}
	return advice
}
