package risk

import "sort"

// MaxRankedRisks caps how many scored conditions a report carries.
const MaxRankedRisks = 10

// baseRisks is the canonical condition list with its prior weights. Order
// matters: equal scores keep this order after the stable sort.
var baseRisks = []ConditionRisk{
	{ConditionHypertension, 10},
	{ConditionDiabetes, 10},
	{ConditionCoronaryHD, 5},
	{ConditionLiverCirrhosis, 2},
	{ConditionCOPD, 2},
	{ConditionOsteoarthritis, 5},
	{ConditionStroke, 5},
	{ConditionKidneyDisease, 5},
	{ConditionAnemia, 2},
	{ConditionSleepApnea, 5},
	{ConditionLungCancer, 1},
	{ConditionGout, 2},
}

// modifier is one rule's additive score deltas keyed by condition.
type modifier map[Condition]int

var (
	overweightModifier = modifier{
		ConditionHypertension:   30,
		ConditionDiabetes:       40,
		ConditionCoronaryHD:     25,
		ConditionOsteoarthritis: 35,
		ConditionSleepApnea:     50,
		ConditionGout:           20,
	}
	smokerModifier = modifier{
		ConditionCOPD:         80,
		ConditionLungCancer:   70,
		ConditionCoronaryHD:   50,
		ConditionStroke:       40,
		ConditionHypertension: 20,
	}
	heavyAlcoholModifier = modifier{
		ConditionLiverCirrhosis: 85,
		ConditionHypertension:   30,
		ConditionStroke:         20,
	}
	diabeticModifier = modifier{
		ConditionDiabetes:      100,
		ConditionKidneyDisease: 60,
		ConditionCoronaryHD:    50,
		ConditionStroke:        40,
	}
	sedentaryModifier = modifier{
		ConditionCoronaryHD:   20,
		ConditionDiabetes:     15,
		ConditionHypertension: 10,
	}
	olderAgeModifier = modifier{
		ConditionCoronaryHD:     30,
		ConditionStroke:         30,
		ConditionOsteoarthritis: 40,
	}
)

// Score evaluates the rule set against a valid survey and returns the
// ranked risks, highest score first, capped at MaxRankedRisks. All
// applicable rules fire; a condition may accumulate points from several
// rules. The caller is responsible for validating the survey first.
func Score(in SurveyInput) []ConditionRisk {
	risks := make([]ConditionRisk, len(baseRisks))
	copy(risks, baseRisks)

	apply := func(m modifier) {
		for i := range risks {
			if pts, ok := m[risks[i].Condition]; ok {
				risks[i].Score += pts
			}
		}
	}

	bmi := ComputeBMI(in.HeightCm, in.WeightKg)
	if bmi.Value >= 25 {
		apply(overweightModifier)
	}
	if in.Smokes {
		apply(smokerModifier)
	}
	if in.AlcoholUse == AlcoholHeavy {
		apply(heavyAlcoholModifier)
	}
	if in.Diabetic {
		apply(diabeticModifier)
	}
	if in.ActivityLevel == ActivitySedentary {
		apply(sedentaryModifier)
	}
	if in.EffectiveAge() > 50 {
		apply(olderAgeModifier)
	}

	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Score > risks[j].Score
	})

	if len(risks) > MaxRankedRisks {
		risks = risks[:MaxRankedRisks]
	}
	return risks
}
