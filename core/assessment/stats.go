package assessment

import "sort"

type (
	AssessmentStats struct {
		TotalMarks      float64 `json:"total_marks"`
		PassThreshold   float64 `json:"pass_threshold"`
		TotalStudents   int     `json:"total_students"`
		PresentStudents int     `json:"present_students"`
		AbsentStudents  int     `json:"absent_students"`
		PassedStudents  int     `json:"passed_students"`
		FailedStudents  int     `json:"failed_students"`
		PassPercentage  float64 `json:"pass_percentage"`
		AverageMarks    float64 `json:"average_marks"`
		HighestMarks    float64 `json:"highest_marks"`
		LowestMarks     float64 `json:"lowest_marks"`
	}

	// RankedMarkRow is one line of an assessment's results table.
	// Absent rows have no rank, percentage or grade.
	RankedMarkRow struct {
		Rank          int          `json:"rank,omitempty"`
		StudentID     string       `json:"student_id"`
		StudentName   string       `json:"student_name"`
		RollNumber    string       `json:"roll_number"`
		SubjectID     string       `json:"subject_id,omitempty"`
		SubjectName   string       `json:"subject_name"`
		ObtainedMarks *float64     `json:"obtained_marks"`
		IsAbsent      bool         `json:"is_absent"`
		Percentage    *float64     `json:"percentage,omitempty"`
		Status        ResultStatus `json:"status"`
		Grade         string       `json:"grade,omitempty"`
	}

	TestResults struct {
		Assessment *Assessment      `json:"assessment,omitempty"`
		Rows       []RankedMarkRow  `json:"rows"`
		Stats      *AssessmentStats `json:"stats"`
	}
)

// AssessmentResults computes the results table and statistics of the assessment referenced by ref (see MakeRef).
// An empty ref yields StateUnselected; an unknown assessment or one without marks yields StateNoData.
func AssessmentResults(snap Snapshot, ref string) (TestResults, ReportState) {
	res := TestResults{Rows: []RankedMarkRow{}}
	if ref == "" {
		return res, StateUnselected
	}
	kind, id, err := ParseRef(ref)
	if err != nil {
		return res, StateNoData
	}

	idx := newIndex(snap)
	key := assessmentKey{kind, id}
	asmt, ok := idx.assessments[key]
	if !ok {
		return res, StateNoData
	}
	a := *asmt
	res.Assessment = &a

	marks := idx.marksByAssessment[key]
	if len(marks) == 0 {
		return res, StateNoData
	}

	stats := &AssessmentStats{
		TotalMarks:    a.TotalMarks,
		PassThreshold: a.PassThreshold(),
		TotalStudents: len(marks),
	}
	var sum float64
	present := make([]MarkRecord, 0, len(marks))
	absent := make([]MarkRecord, 0)
	for _, m := range marks {
		if m.IsAbsent {
			absent = append(absent, m)
			continue
		}
		obtained := m.Obtained()
		if len(present) == 0 || obtained > stats.HighestMarks {
			stats.HighestMarks = obtained
		}
		if len(present) == 0 || obtained < stats.LowestMarks {
			stats.LowestMarks = obtained
		}
		if obtained >= stats.PassThreshold {
			stats.PassedStudents++
		} else {
			stats.FailedStudents++
		}
		sum += obtained
		present = append(present, m)
	}
	stats.PresentStudents = len(present)
	stats.AbsentStudents = len(absent)
	stats.PassPercentage = round1(percent(float64(stats.PassedStudents), float64(stats.PresentStudents)))
	if stats.PresentStudents > 0 {
		stats.AverageMarks = round1(sum / float64(stats.PresentStudents))
	}
	res.Stats = stats

	sort.SliceStable(present, func(i, j int) bool { return present[i].Obtained() > present[j].Obtained() })

	res.Rows = make([]RankedMarkRow, 0, len(marks))
	for i, m := range present {
		row := newRow(m)
		obtained := m.Obtained()
		pct := round2(percent(obtained, a.TotalMarks))
		row.Percentage = &pct
		row.Grade = Grade(pct)
		row.Status = StatusFail
		if obtained >= stats.PassThreshold {
			row.Status = StatusPass
		}
		// ties share the rank of the first of them
		row.Rank = i + 1
		if i > 0 && present[i-1].Obtained() == obtained {
			row.Rank = res.Rows[i-1].Rank
		}
		res.Rows = append(res.Rows, row)
	}
	for _, m := range absent {
		row := newRow(m)
		row.Status = StatusAbsent
		res.Rows = append(res.Rows, row)
	}
	return res, StateReady
}

func newRow(m MarkRecord) RankedMarkRow {
	row := RankedMarkRow{
		StudentID:     m.StudentID,
		StudentName:   Placeholder,
		RollNumber:    Placeholder,
		SubjectID:     m.SubjectID,
		SubjectName:   Placeholder,
		ObtainedMarks: copyFloat(m.ObtainedMarks),
		IsAbsent:      m.IsAbsent,
	}
	if m.IsAbsent {
		row.ObtainedMarks = nil
	}
	if m.Student != nil {
		row.StudentName = m.Student.FullName()
		row.RollNumber = m.Student.RollNumber
	}
	if m.Subject != nil {
		row.SubjectName = m.Subject.Name
	}
	return row
}
