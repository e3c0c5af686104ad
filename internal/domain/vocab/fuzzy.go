package vocab

import "strings"

// maxSuggestDistance bounds how far a suggestion may be from the input.
const maxSuggestDistance = 2

// vocabulary lists known search terms, already lower-cased. Iteration
// order breaks ties, so keep the list deliberate: common drugs first,
// then conditions.
var vocabulary = []string{
	"tylenol",
	"aspirin",
	"ibuprofen",
	"paracetamol",
	"metformin",
	"lisinopril",
	"atorvastatin",
	"omeprazole",
	"amoxicillin",
	"amlodipine",
	"gabapentin",
	"prednisone",
	"warfarin",
	"insulin",
	"hypertension",
	"diabetes mellitus",
	"asthma",
	"depression",
	"anxiety",
	"pneumonia",
	"anemia",
	"migraine",
	"osteoarthritis",
	"gout",
}

// Suggest returns the closest vocabulary entry to the given term when its
// edit distance is within maxSuggestDistance. Exact matches need no
// suggestion and return false, as does input too far from everything.
func Suggest(term string) (string, bool) {
	input := strings.ToLower(strings.TrimSpace(term))
	if input == "" {
		return "", false
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, entry := range vocabulary {
		if d := distance(input, entry); d < bestDist {
			best = entry
			bestDist = d
		}
	}
	if bestDist == 0 || bestDist > maxSuggestDistance {
		return "", false
	}
	return best, true
}

// distance is the Levenshtein edit distance with unit-cost inserts,
// deletes, and substitutions.
func distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			del := matrix[i-1][j] + 1
			ins := matrix[i][j-1] + 1
			sub := matrix[i-1][j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			matrix[i][j] = m
		}
	}
	return matrix[len(a)][len(b)]
}
