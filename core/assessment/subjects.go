package assessment

import "sort"

type (
	SubjectSummary struct {
		SubjectID         string  `json:"subject_id"`
		SubjectName       string  `json:"subject_name"`
		TotalTests        int     `json:"total_tests"`
		TotalExams        int     `json:"total_exams"`
		TotalAssessments  int     `json:"total_assessments"`
		TotalStudents     int     `json:"total_students"`
		PassedStudents    int     `json:"passed_students"`
		FailedStudents    int     `json:"failed_students"`
		PassPercentage    float64 `json:"pass_percentage"`
		AveragePercentage float64 `json:"average_percentage"`
	}

	SubjectOverallStats struct {
		TotalSubjects         int     `json:"total_subjects"`
		TotalTests            int     `json:"total_tests"`
		TotalExams            int     `json:"total_exams"`
		TotalStudents         int     `json:"total_students"`
		OverallPassPercentage float64 `json:"overall_pass_percentage"`
	}

	SubjectReport struct {
		Rows  []SubjectSummary    `json:"rows"`
		Stats SubjectOverallStats `json:"stats"`
	}

	subjectAcc struct {
		SubjectSummary
		tests, exams       map[string]struct{}
		obtained, maxMarks float64
	}
)

// SubjectSummaries rolls every test and exam mark up per subject id.
// Marks whose assessment cannot be resolved are ignored.
// A non-empty subjectID keeps only the marks of that subject.
func SubjectSummaries(snap Snapshot, subjectID string) SubjectReport {
	idx := newIndex(snap)

	accs := make([]*subjectAcc, 0)
	bySubject := make(map[string]*subjectAcc)
	uniqTests := make(map[string]struct{})
	uniqExams := make(map[string]struct{})
	var passed int

	for _, m := range idx.marks() {
		if m.Assessment == nil {
			continue
		}
		if subjectID != "" && m.SubjectID != subjectID {
			continue
		}

		acc, ok := bySubject[m.SubjectID]
		if !ok {
			acc = &subjectAcc{
				SubjectSummary: SubjectSummary{SubjectID: m.SubjectID, SubjectName: Placeholder},
				tests:          make(map[string]struct{}),
				exams:          make(map[string]struct{}),
			}
			if m.Subject != nil {
				acc.SubjectName = m.Subject.Name
			}
			bySubject[m.SubjectID] = acc
			accs = append(accs, acc)
		}

		if m.AssessmentKind == KindTest {
			acc.tests[m.AssessmentID] = struct{}{}
			uniqTests[m.AssessmentID] = struct{}{}
		} else {
			acc.exams[m.AssessmentID] = struct{}{}
			uniqExams[m.AssessmentID] = struct{}{}
		}

		acc.TotalStudents++
		if m.IsAbsent {
			continue
		}
		if m.passed() {
			acc.PassedStudents++
			passed++
		} else {
			acc.FailedStudents++
		}
		acc.obtained += m.Obtained()
		acc.maxMarks += m.Assessment.TotalMarks
	}

	report := SubjectReport{Rows: make([]SubjectSummary, 0, len(accs))}
	for _, acc := range accs {
		s := acc.SubjectSummary
		s.TotalTests = len(acc.tests)
		s.TotalExams = len(acc.exams)
		s.TotalAssessments = s.TotalTests + s.TotalExams
		s.PassPercentage = round1(percent(float64(s.PassedStudents), float64(s.TotalStudents)))
		s.AveragePercentage = round1(percent(acc.obtained, acc.maxMarks))
		report.Rows = append(report.Rows, s)
		report.Stats.TotalStudents += s.TotalStudents
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].AveragePercentage > report.Rows[j].AveragePercentage
	})

	report.Stats.TotalSubjects = len(report.Rows)
	report.Stats.TotalTests = len(uniqTests)
	report.Stats.TotalExams = len(uniqExams)
	report.Stats.OverallPassPercentage = round1(percent(float64(passed), float64(report.Stats.TotalStudents)))
	return report
}
