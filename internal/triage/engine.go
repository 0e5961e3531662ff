package triage

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"clinic-portal-server/internal/models"
)

// ErrSymptomsRequired is returned when the symptom text is empty; no
// matching runs without input.
var ErrSymptomsRequired = errors.New("symptom description is required")

// criticalPhrases force overall urgency to emergency regardless of what the
// scope table derives. Matched as whole words/phrases.
var criticalPhrases = []string{
	"heart attack",
	"cannot breathe",
	"can't breathe",
	"unable to breathe",
	"difficulty breathing",
	"severe bleeding",
	"unconscious",
	"unresponsive",
	"suicidal",
	"suicide",
	"seizure",
	"stroke",
	"overdose",
	"choking",
	"anaphylaxis",
}

// maxConditionsPerScope caps how many possible conditions one matched scope
// contributes to the report.
const maxConditionsPerScope = 3

// CheckInput carries one triage invocation.
type CheckInput struct {
	PatientID      string
	Symptoms       string
	Duration       string
	Age            int
	AdditionalInfo string
}

// CheckResult is the outcome of a triage run.
type CheckResult struct {
	CheckID         string              `json:"checkId"`
	Urgency         models.UrgencyLevel `json:"urgency"`
	Report          Report              `json:"report"`
	Response        string              `json:"response"`
	DetectedScopes  []string            `json:"detectedScopes"`  // scope IDs
	MatchedSymptoms []string            `json:"matchedSymptoms"` // scope symptom names
}

// Engine evaluates free-text symptoms against the admin-curated scope table.
// Pure local rule evaluation; no external calls.
type Engine struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewEngine creates a triage Engine.
func NewEngine(db *gorm.DB, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{db: db, logger: logger}
}

// Check runs the triage rules, persists the check with its matched-scope
// links, and returns the structured report.
func (e *Engine) Check(input CheckInput) (*CheckResult, error) {
	if strings.TrimSpace(input.Symptoms) == "" {
		return nil, ErrSymptomsRequired
	}

	var scopes []models.SymptomScope
	if err := e.db.Where("is_active = ?", true).Find(&scopes).Error; err != nil {
		return nil, err
	}

	haystack := strings.ToLower(strings.Join([]string{input.Symptoms, input.Duration, input.AdditionalInfo}, " "))

	urgency := models.UrgencyRoutine
	var detected []models.SymptomScope
	var warnings []string
	for _, scope := range scopes {
		if !containsWholeWord(haystack, scope.SymptomName) {
			continue
		}
		detected = append(detected, scope)

		effective := scope.UrgencyLevel
		for _, keyword := range splitList(scope.WarningKeywords) {
			if containsWholeWord(haystack, keyword) {
				// Co-present warning keyword escalates this scope
				// to at least urgent.
				effective = effective.AtLeast(models.UrgencyUrgent)
				warnings = append(warnings, keyword)
			}
		}
		urgency = urgency.AtLeast(effective)
	}

	// Critical-phrase override beats anything the scope table derived.
	critical := false
	for _, phrase := range criticalPhrases {
		if containsWholeWord(haystack, phrase) {
			critical = true
			urgency = models.UrgencyEmergency
			break
		}
	}

	report := e.buildReport(urgency, detected, warnings, critical)
	rendered := report.RenderText()

	check := models.SymptomCheck{
		PatientID:      input.PatientID,
		Symptoms:       input.Symptoms,
		Duration:       input.Duration,
		Age:            input.Age,
		AdditionalInfo: input.AdditionalInfo,
		UrgencyLevel:   urgency,
		Response:       rendered,
	}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&check).Error; err != nil {
			return err
		}
		for _, scope := range detected {
			if err := tx.Create(&models.SymptomCheckScope{
				SymptomCheckID: check.ID,
				SymptomScopeID: scope.ID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		CheckID:         check.ID,
		Urgency:         urgency,
		Report:          report,
		Response:        rendered,
		DetectedScopes:  make([]string, 0, len(detected)),
		MatchedSymptoms: make([]string, 0, len(detected)),
	}
	for _, scope := range detected {
		result.DetectedScopes = append(result.DetectedScopes, scope.ID)
		result.MatchedSymptoms = append(result.MatchedSymptoms, scope.SymptomName)
	}

	e.logger.Info("symptom check evaluated",
		"check_id", check.ID,
		"urgency", urgency,
		"matched_scopes", len(detected))
	return result, nil
}

// buildReport assembles the deterministic report sections. Branches are
// fixed by urgency and by which categories were detected.
func (e *Engine) buildReport(urgency models.UrgencyLevel, detected []models.SymptomScope, warnings []string, critical bool) Report {
	report := Report{Urgency: urgency}

	var conditions []string
	var categories []string
	var specializations []string
	for _, scope := range detected {
		categories = append(categories, scope.Category)
		for i, condition := range splitList(scope.PossibleConditions) {
			if i >= maxConditionsPerScope {
				break
			}
			conditions = appendUnique(conditions, condition)
		}
		if scope.RecommendedSpec != "" {
			specializations = appendUnique(specializations, scope.RecommendedSpec)
		}
	}

	if len(conditions) > 0 {
		report.Sections = append(report.Sections, Section{
			Heading: "Possible conditions",
			Body:    "Based on your description, your symptoms may relate to:",
			Items:   conditions,
		})
	} else {
		report.Sections = append(report.Sections, Section{
			Heading: "Assessment",
			Body:    "Your description did not match a known symptom pattern. A doctor can assess it properly.",
		})
	}

	if urgency != models.UrgencyEmergency {
		report.Sections = append(report.Sections, Section{
			Heading: "Self-care advice",
			Items:   selfCareAdvice(categories),
		})
	}

	if len(warnings) > 0 || critical {
		items := dedupe(warnings)
		if critical {
			items = appendUnique(items, "symptoms described suggest a possible emergency")
		}
		report.Sections = append(report.Sections, Section{
			Heading: "Warning signs detected",
			Body:    "The following raised the urgency of this assessment:",
			Items:   items,
		})
	}

	report.Sections = append(report.Sections, Section{
		Heading: "Urgency",
		Body:    urgencyVerdicts[urgency],
	})

	if len(specializations) > 0 {
		report.Sections = append(report.Sections, Section{
			Heading: "Recommended specialization",
			Body:    "Consider booking with: " + strings.Join(specializations, ", "),
		})
	}

	report.Sections = append(report.Sections, Section{
		Heading: "Note",
		Body:    "This is an automated, rule-based assessment and not a medical diagnosis.",
	})
	return report
}

// containsWholeWord reports whether needle occurs in haystack on word
// boundaries. Both sides are expected lowercase; needle may be a phrase.
func containsWholeWord(haystack, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	if err != nil {
		return false
	}
	return pattern.MatchString(haystack)
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, value := range list {
		out = appendUnique(out, value)
	}
	return out
}
