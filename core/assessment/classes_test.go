package assessment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassSummaries(t *testing.T) {
	t.Run("class without section", func(t *testing.T) {
		snap := Snapshot{
			Classes:  []ClassRef{{ID: "c5", Name: "Grade 5"}},
			Students: students(10),
			Tests: []Test{
				{ID: "t1", ClassID: "c5", SubjectID: "math", TotalMarks: 10},
				{ID: "t2", ClassID: "c5", SubjectID: "eng", TotalMarks: 10},
			},
		}
		for _, test := range snap.Tests {
			for i := 1; i <= 10; i++ {
				obtained := 8.0
				if i > 7 {
					obtained = 1
				}
				snap.TestMarks = append(snap.TestMarks, present(test.ID, fmt.Sprintf("s%d", i), obtained))
			}
		}

		report := ClassSummaries(snap, "")
		require.Len(t, report.Rows, 1)
		row := report.Rows[0]
		assert.Equal(t, "Grade 5", row.ClassName)
		assert.Equal(t, 2, row.TotalTests)
		assert.Equal(t, 0, row.TotalExams)
		assert.Equal(t, 2, row.TotalAssessments)
		assert.Equal(t, 20, row.TotalStudents)
		assert.Equal(t, 14, row.PassedStudents)
		assert.Equal(t, 6, row.FailedStudents)
		assert.Equal(t, 70.0, row.PassPercentage)
	})

	t.Run("school", func(t *testing.T) {
		report := ClassSummaries(schoolSnapshot(), "")
		assert.Equal(t, []ClassSummary{
			{ClassName: "Grade 6", TotalTests: 1, TotalExams: 1, TotalAssessments: 2, TotalStudents: 2, PassedStudents: 2, PassPercentage: 100},
			{ClassName: "Grade 5 B", TotalTests: 1, TotalAssessments: 1, TotalStudents: 2, PassedStudents: 1, FailedStudents: 1, PassPercentage: 50},
			{ClassName: "Grade 5 A", TotalTests: 1, TotalExams: 1, TotalAssessments: 2, TotalStudents: 7, PassedStudents: 3, FailedStudents: 2, AbsentStudents: 2, PassPercentage: 42.9},
		}, report.Rows)
		assert.Equal(t, ClassOverallStats{
			TotalClasses:          3,
			TotalTests:            3,
			TotalExams:            2,
			TotalStudents:         11,
			TotalPassed:           6,
			OverallPassPercentage: 54.5,
		}, report.Stats)

		for _, row := range report.Rows {
			assert.Equal(t, row.TotalStudents, row.PassedStudents+row.FailedStudents+row.AbsentStudents, row.ClassName)
			assert.Equal(t, row.TotalAssessments, row.TotalTests+row.TotalExams, row.ClassName)
		}
	})

	t.Run("class filter", func(t *testing.T) {
		report := ClassSummaries(schoolSnapshot(), "c5")
		require.Len(t, report.Rows, 2)
		assert.Equal(t, "Grade 5 B", report.Rows[0].ClassName)
		assert.Equal(t, "Grade 5 A", report.Rows[1].ClassName)
		assert.Equal(t, 2, report.Stats.TotalTests)
		assert.Equal(t, 1, report.Stats.TotalExams)
		assert.Equal(t, 9, report.Stats.TotalStudents)
		assert.Equal(t, 44.4, report.Stats.OverallPassPercentage)
	})

	t.Run("assessments without marks still count", func(t *testing.T) {
		snap := Snapshot{Exams: []Exam{{ID: "e", ClassID: "gone"}}}
		report := ClassSummaries(snap, "")
		require.Len(t, report.Rows, 1)
		assert.Equal(t, ClassSummary{ClassName: Placeholder, TotalExams: 1, TotalAssessments: 1}, report.Rows[0])
		assert.Zero(t, report.Stats.OverallPassPercentage)
	})

	t.Run("empty", func(t *testing.T) {
		report := ClassSummaries(Snapshot{}, "")
		assert.NotNil(t, report.Rows)
		assert.Empty(t, report.Rows)
		assert.Equal(t, ClassOverallStats{}, report.Stats)
	})
}
