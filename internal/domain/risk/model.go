package risk

import (
	"fmt"
	"math"
)

// Condition identifies one of the tracked health conditions. The set is
// fixed; scoring never produces a condition outside it.
type Condition string

const (
	ConditionHypertension   Condition = "Hypertension"
	ConditionDiabetes       Condition = "Type 2 Diabetes"
	ConditionCoronaryHD     Condition = "Coronary Heart Disease"
	ConditionLiverCirrhosis Condition = "Liver Cirrhosis"
	ConditionCOPD           Condition = "COPD"
	ConditionOsteoarthritis Condition = "Osteoarthritis"
	ConditionStroke         Condition = "Stroke"
	ConditionKidneyDisease  Condition = "Kidney Disease"
	ConditionAnemia         Condition = "Anemia"
	ConditionSleepApnea     Condition = "Sleep Apnea"
	ConditionLungCancer     Condition = "Lung Cancer"
	ConditionGout           Condition = "Gout"
)

// AlcoholUse describes self-reported drinking habits.
type AlcoholUse string

const (
	AlcoholNone     AlcoholUse = "none"
	AlcoholModerate AlcoholUse = "moderate"
	AlcoholHeavy    AlcoholUse = "heavy"
)

// ActivityLevel describes self-reported physical activity.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

var validAlcoholUse = map[AlcoholUse]bool{
	AlcoholNone: true, AlcoholModerate: true, AlcoholHeavy: true,
}

var validActivityLevels = map[ActivityLevel]bool{
	ActivitySedentary: true, ActivityModerate: true, ActivityActive: true,
}

// defaultAge is assumed when the survey omits the age field.
const defaultAge = 30

// SurveyInput is one submission of the biometric survey. It is consumed by
// a single scoring run and never persisted.
type SurveyInput struct {
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	Age           int           `json:"age"`
	Smokes        bool          `json:"smokes"`
	Diabetic      bool          `json:"diabetic"`
	AlcoholUse    AlcoholUse    `json:"alcohol_use"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// Validate checks that the survey can be scored. Height and weight are
// required; the lifestyle enums must be known values when present.
func (in *SurveyInput) Validate() error {
	if in.HeightCm <= 0 {
		return fmt.Errorf("height_cm must be positive")
	}
	if in.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive")
	}
	if in.AlcoholUse != "" && !validAlcoholUse[in.AlcoholUse] {
		return fmt.Errorf("invalid alcohol_use: %s", in.AlcoholUse)
	}
	if in.ActivityLevel != "" && !validActivityLevels[in.ActivityLevel] {
		return fmt.Errorf("invalid activity_level: %s", in.ActivityLevel)
	}
	return nil
}

// EffectiveAge returns the survey age, or the default when absent.
func (in *SurveyInput) EffectiveAge() int {
	if in.Age <= 0 {
		return defaultAge
	}
	return in.Age
}

// BMICategory is the clinical band a BMI value falls into.
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMIHealthy     BMICategory = "Healthy"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// bmiGaugeCeiling caps the gauge display value so extreme BMIs still fit
// the dial.
const bmiGaugeCeiling = 40

// BMIResult is the computed body mass index view-model.
type BMIResult struct {
	Value      float64     `json:"value"`
	Category   BMICategory `json:"category"`
	GaugeValue float64     `json:"gauge_value"`
}

// ComputeBMI derives the BMI from height in centimeters and weight in
// kilograms. The value is rounded to one decimal before categorization so
// the displayed number and the band always agree.
func ComputeBMI(heightCm, weightKg float64) BMIResult {
	m := heightCm / 100
	value := math.Round(weightKg/(m*m)*10) / 10

	category := BMIHealthy
	switch {
	case value < 18.5:
		category = BMIUnderweight
	case value >= 30:
		category = BMIObese
	case value >= 25:
		category = BMIOverweight
	}

	gauge := value
	if gauge > bmiGaugeCeiling {
		gauge = bmiGaugeCeiling
	}
	return BMIResult{Value: value, Category: category, GaugeValue: gauge}
}

// Severity bands a risk score for display emphasis.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityElevated Severity = "elevated"
	SeverityHigh     Severity = "high"
)

// ConditionRisk is one scored condition in a report.
type ConditionRisk struct {
	Condition Condition `json:"condition"`
	Score     int       `json:"score"`
}

// Severity returns the display band for the score.
func (r ConditionRisk) Severity() Severity {
	switch {
	case r.Score > 70:
		return SeverityHigh
	case r.Score > 40:
		return SeverityElevated
	default:
		return SeverityLow
	}
}
