// Package vocab maps internal condition names to the MedDRA terms the
// openFDA adverse-event API indexes, and offers spelling suggestions for
// free-text queries against a fixed vocabulary.
package vocab

import "strings"

// fdaTerms maps display names to the exact openFDA search vocabulary.
// Several conditions are indexed under a different clinical term than the
// one we display (e.g. Stroke → CEREBROVASCULAR ACCIDENT).
var fdaTerms = map[string]string{
	"Hypertension":           "HYPERTENSION",
	"Type 2 Diabetes":        "DIABETES MELLITUS",
	"Coronary Heart Disease": "CORONARY ARTERY DISEASE",
	"Liver Cirrhosis":        "CIRRHOSIS",
	"COPD":                   "CHRONIC OBSTRUCTIVE PULMONARY DISEASE",
	"Osteoarthritis":         "OSTEOARTHRITIS",
	"Stroke":                 "CEREBROVASCULAR ACCIDENT",
	"Kidney Disease":         "RENAL FAILURE",
	"Anemia":                 "ANEMIA",
	"Sleep Apnea":            "SLEEP APNEA SYNDROME",
	"Lung Cancer":            "LUNG NEOPLASM",
	"Gout":                   "GOUT",
}

// SearchTerm returns the openFDA vocabulary term for an internal condition
// name. Unmapped names fall back to the upper-cased display name.
func SearchTerm(name string) string {
	if term, ok := fdaTerms[name]; ok {
		return term
	}
	return strings.ToUpper(name)
}
