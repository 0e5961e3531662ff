package triage

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clinic-portal-server/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.MigrateAll(db))
	return db
}

func createPatient(t *testing.T, db *gorm.DB) string {
	t.Helper()
	patient := models.User{
		Email:     fmt.Sprintf("patient-%d@clinic.test", time.Now().UnixNano()),
		FirstName: "Test",
		LastName:  "Patient",
		Role:      models.RolePatient,
	}
	require.NoError(t, patient.SetPassword("test-password-1"))
	require.NoError(t, db.Create(&patient).Error)
	return patient.ID
}

func seedScope(t *testing.T, db *gorm.DB, scope models.SymptomScope) models.SymptomScope {
	t.Helper()
	require.NoError(t, db.Create(&scope).Error)
	return scope
}

// seedStandardScopes installs a small rule table shared by most tests.
func seedStandardScopes(t *testing.T, db *gorm.DB) map[string]models.SymptomScope {
	t.Helper()
	scopes := map[string]models.SymptomScope{
		"headache": seedScope(t, db, models.SymptomScope{
			SymptomName:        "headache",
			Category:           "neurological",
			PossibleConditions: "tension headache, migraine, dehydration",
			UrgencyLevel:       models.UrgencyRoutine,
			WarningKeywords:    "worst ever, sudden, vision loss",
			RecommendedSpec:    "Neurology",
			IsActive:           true,
		}),
		"chest pain": seedScope(t, db, models.SymptomScope{
			SymptomName:        "chest pain",
			Category:           "cardiovascular",
			PossibleConditions: "angina, muscle strain, acid reflux, costochondritis",
			UrgencyLevel:       models.UrgencyUrgent,
			WarningKeywords:    "radiating, crushing, sweating",
			RecommendedSpec:    "Cardiology",
			IsActive:           true,
		}),
		"cough": seedScope(t, db, models.SymptomScope{
			SymptomName:        "cough",
			Category:           "respiratory",
			PossibleConditions: "common cold, bronchitis, allergy",
			UrgencyLevel:       models.UrgencyRoutine,
			WarningKeywords:    "blood, high fever",
			RecommendedSpec:    "Pulmonology",
			IsActive:           true,
		}),
	}
	return scopes
}

func TestCheckRequiresSymptoms(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, nil)

	_, err := engine.Check(CheckInput{PatientID: createPatient(t, db), Symptoms: "   "})
	assert.ErrorIs(t, err, ErrSymptomsRequired)
}

func TestCheckRoutineMatch(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "I have had a mild headache since yesterday",
		Duration:  "1 day",
		Age:       34,
	})
	require.NoError(t, err)

	assert.Equal(t, models.UrgencyRoutine, result.Urgency)
	assert.Equal(t, []string{"headache"}, result.MatchedSymptoms)
	assert.Contains(t, result.Response, "tension headache")
	assert.Contains(t, result.Response, "Neurology")
	assert.Contains(t, result.Response, "not a medical diagnosis")
}

func TestCheckWholeWordMatchingOnly(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	// "coughing" must not match the "cough" scope on a substring.
	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "headaches and coughing fits",
	})
	require.NoError(t, err)
	assert.NotContains(t, result.MatchedSymptoms, "cough")
	assert.NotContains(t, result.MatchedSymptoms, "headache")
}

func TestCheckMatchingIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "Sudden HEADACHE, the worst ever",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"headache"}, result.MatchedSymptoms)
}

func TestCheckWarningKeywordEscalates(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	// A routine scope plus a co-present warning keyword becomes urgent.
	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "headache with sudden vision loss",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UrgencyUrgent, result.Urgency)
	assert.Contains(t, result.Response, "Warning signs detected")
	assert.Contains(t, result.Response, "vision loss")
}

func TestCheckWarningKeywordWithoutScopeDoesNotEscalate(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	// "sudden" alone matches no scope, so nothing escalates.
	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "sudden tiredness",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyRoutine, result.Urgency)
	assert.Empty(t, result.MatchedSymptoms)
}

func TestCheckCriticalPhraseOverride(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "severe chest pain, crushing, can't breathe",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UrgencyEmergency, result.Urgency)
	assert.Contains(t, result.Response, "emergency")
	assert.Contains(t, result.Response, "possible emergency")
	// Emergency reports carry no self-care section.
	assert.NotContains(t, result.Response, "Self-care advice")
}

func TestCheckCriticalPhraseAloneIsEmergency(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, nil)

	// No scope table rows at all; the hardcoded phrase still fires.
	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "my father is unconscious",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyEmergency, result.Urgency)
	assert.Empty(t, result.MatchedSymptoms)
}

func TestCheckNoMatchFallsBackToGeneralAdvice(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "feeling a bit off lately",
	})
	require.NoError(t, err)

	assert.Equal(t, models.UrgencyRoutine, result.Urgency)
	assert.Empty(t, result.MatchedSymptoms)
	assert.Contains(t, result.Response, "did not match a known symptom pattern")
	assert.Contains(t, result.Response, "Keep a symptom diary to share with your doctor")
}

func TestCheckConditionsCappedPerScope(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	// The chest pain scope lists four conditions; only three survive.
	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "chest pain after exercise",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Response, "angina")
	assert.Contains(t, result.Response, "acid reflux")
	assert.NotContains(t, result.Response, "costochondritis")
}

func TestCheckIgnoresInactiveScopes(t *testing.T) {
	db := openTestDB(t)
	seedScope(t, db, models.SymptomScope{
		SymptomName:  "headache",
		Category:     "neurological",
		UrgencyLevel: models.UrgencyUrgent,
		IsActive:     false,
	})
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID: createPatient(t, db),
		Symptoms:  "bad headache",
	})
	require.NoError(t, err)
	assert.Empty(t, result.MatchedSymptoms)
	assert.Equal(t, models.UrgencyRoutine, result.Urgency)
}

func TestCheckScansDurationAndAdditionalInfo(t *testing.T) {
	db := openTestDB(t)
	seedStandardScopes(t, db)
	engine := NewEngine(db, nil)

	result, err := engine.Check(CheckInput{
		PatientID:      createPatient(t, db),
		Symptoms:       "cough",
		Duration:       "three weeks",
		AdditionalInfo: "noticed some blood this morning",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyUrgent, result.Urgency)
	assert.Contains(t, result.Response, "blood")
}

func TestCheckPersistsCheckAndScopeLinks(t *testing.T) {
	db := openTestDB(t)
	scopes := seedStandardScopes(t, db)
	engine := NewEngine(db, nil)
	patientID := createPatient(t, db)

	result, err := engine.Check(CheckInput{
		PatientID: patientID,
		Symptoms:  "headache and chest pain",
		Duration:  "2 hours",
		Age:       51,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.CheckID)

	var check models.SymptomCheck
	require.NoError(t, db.First(&check, "id = ?", result.CheckID).Error)
	assert.Equal(t, patientID, check.PatientID)
	assert.Equal(t, models.UrgencyUrgent, check.UrgencyLevel)
	assert.Equal(t, result.Response, check.Response)

	var links []models.SymptomCheckScope
	require.NoError(t, db.Where("symptom_check_id = ?", check.ID).Find(&links).Error)
	require.Len(t, links, 2)
	linked := map[string]bool{}
	for _, link := range links {
		linked[link.SymptomScopeID] = true
	}
	assert.True(t, linked[scopes["headache"].ID])
	assert.True(t, linked[scopes["chest pain"].ID])
}

func TestRenderTextLayout(t *testing.T) {
	report := Report{
		Urgency: models.UrgencyRoutine,
		Sections: []Section{
			{Heading: "Possible conditions", Body: "May relate to:", Items: []string{"a", "b"}},
			{Heading: "Note", Body: "Automated assessment."},
		},
	}
	text := report.RenderText()
	assert.Equal(t, "Possible conditions\nMay relate to:\n- a\n- b\n\nNote\nAutomated assessment.\n", text)
}
