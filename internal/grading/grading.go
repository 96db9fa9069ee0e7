// Package grading holds the grade aggregation rules: the weighted final grade of
// an enrollment and the credit-weighted GPA roll-ups built from final grades.
package grading

import (
	"sort"

	"github.com/noah-isme/sis-api/internal/models"
)

// PassingGrade is the lowest final grade that earns credit.
const PassingGrade = 60.0

// FinalGrade returns the weighted percentage of the graded components. Components
// without a score or with a non-positive max score are skipped entirely, and the
// result is normalised against the weight actually present, so partial grading
// still yields a 0-100 figure. Out-of-range scores are not clamped. With no
// usable weight the result is 0.
func FinalGrade(components []models.GradeComponent) float64 {
	var totalWeighted, totalWeight float64
	for _, c := range components {
		if c.Score == nil || c.MaxScore <= 0 {
			continue
		}
		ratio := *c.Score / c.MaxScore
		totalWeighted += ratio * c.Weight
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return totalWeighted * (100 / totalWeight)
}

// Points converts a percentage grade to the 4-point scale.
func Points(grade float64) float64 {
	switch {
	case grade >= 90:
		return 4.0
	case grade >= 80:
		return 3.0
	case grade >= 70:
		return 2.0
	case grade >= 60:
		return 1.0
	default:
		return 0.0
	}
}

// Rollup computes the credit-weighted GPA over graded enrollments. Ungraded
// enrollments are ignored; GPA stays nil when no graded credits exist.
func Rollup(entries []models.EnrollmentWithCourse) models.StandingSummary {
	var totalPoints float64
	var summary models.StandingSummary
	for _, e := range entries {
		if e.Grade == nil {
			continue
		}
		grade := *e.Grade
		totalPoints += Points(grade) * float64(e.Credits)
		summary.TotalCredits += e.Credits
		if grade >= PassingGrade {
			summary.PassedCredits += e.Credits
		}
	}
	if summary.TotalCredits > 0 {
		gpa := totalPoints / float64(summary.TotalCredits)
		summary.GPA = &gpa
	}
	return summary
}

type termKey struct {
	year     int
	semester string
}

// Terms partitions entries by (year, semester label) and rolls up each group
// independently. Groups are ordered chronologically: year ascending, then
// semester labels in natural order ("Semester 2" before "Semester 10").
func Terms(entries []models.EnrollmentWithCourse) []models.TermStanding {
	groups := make(map[termKey][]models.EnrollmentWithCourse)
	keys := make([]termKey, 0)
	for _, e := range entries {
		k := termKey{year: e.Year, semester: e.Semester}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return CompareLabels(keys[i].semester, keys[j].semester) < 0
	})

	terms := make([]models.TermStanding, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, models.TermStanding{
			Year:            k.year,
			Semester:        k.semester,
			StandingSummary: Rollup(groups[k]),
		})
	}
	return terms
}
