package assessment

import "sort"

type (
	ClassSummary struct {
		ClassName        string  `json:"class_name"`
		TotalTests       int     `json:"total_tests"`
		TotalExams       int     `json:"total_exams"`
		TotalAssessments int     `json:"total_assessments"`
		TotalStudents    int     `json:"total_students"`
		PassedStudents   int     `json:"passed_students"`
		FailedStudents   int     `json:"failed_students"`
		AbsentStudents   int     `json:"absent_students"`
		PassPercentage   float64 `json:"pass_percentage"`
	}

	ClassOverallStats struct {
		TotalClasses          int     `json:"total_classes"`
		TotalTests            int     `json:"total_tests"`
		TotalExams            int     `json:"total_exams"`
		TotalStudents         int     `json:"total_students"`
		TotalPassed           int     `json:"total_passed"`
		OverallPassPercentage float64 `json:"overall_pass_percentage"`
	}

	ClassReport struct {
		Rows  []ClassSummary    `json:"rows"`
		Stats ClassOverallStats `json:"stats"`
	}
)

// ClassSummaries rolls every test and exam up per class label ("<class> <section>").
// Assessments of a class without section share the class-only label.
// A non-empty classID keeps only the assessments of that class.
func ClassSummaries(snap Snapshot, classID string) ClassReport {
	idx := newIndex(snap)

	rows := make([]*ClassSummary, 0)
	byLabel := make(map[string]*ClassSummary)
	bucket := func(a *Assessment) *ClassSummary {
		label := a.ClassLabel()
		cs, ok := byLabel[label]
		if !ok {
			cs = &ClassSummary{ClassName: label}
			byLabel[label] = cs
			rows = append(rows, cs)
		}
		return cs
	}

	for _, list := range [][]*Assessment{idx.tests, idx.exams} {
		for _, a := range list {
			if classID != "" && a.ClassID != classID {
				continue
			}
			cs := bucket(a)
			if a.Kind == KindTest {
				cs.TotalTests++
			} else {
				cs.TotalExams++
			}
			for _, m := range idx.marksByAssessment[assessmentKey{a.Kind, a.ID}] {
				cs.TotalStudents++
				switch {
				case m.IsAbsent:
					cs.AbsentStudents++
				case m.passed():
					cs.PassedStudents++
				default:
					cs.FailedStudents++
				}
			}
		}
	}

	report := ClassReport{Rows: make([]ClassSummary, 0, len(rows))}
	for _, cs := range rows {
		cs.TotalAssessments = cs.TotalTests + cs.TotalExams
		cs.PassPercentage = round1(percent(float64(cs.PassedStudents), float64(cs.TotalStudents)))
		report.Rows = append(report.Rows, *cs)

		report.Stats.TotalTests += cs.TotalTests
		report.Stats.TotalExams += cs.TotalExams
		report.Stats.TotalStudents += cs.TotalStudents
		report.Stats.TotalPassed += cs.PassedStudents
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].PassPercentage > report.Rows[j].PassPercentage
	})

	report.Stats.TotalClasses = len(report.Rows)
	report.Stats.OverallPassPercentage = round1(percent(float64(report.Stats.TotalPassed), float64(report.Stats.TotalStudents)))
	return report
}
