package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		wantKind Kind
		wantID   string
		wantErr  error
	}{
		{name: "test", ref: "test:t1", wantKind: KindTest, wantID: "t1"},
		{name: "exam", ref: " exam:e-1 ", wantKind: KindExam, wantID: "e-1"},
		{name: "id with colon", ref: "exam:a:b", wantKind: KindExam, wantID: "a:b"},
		{name: "empty", ref: "", wantErr: ErrInvalidRef},
		{name: "no id", ref: "test:", wantErr: ErrInvalidRef},
		{name: "no kind", ref: "t1", wantErr: ErrInvalidRef},
		{name: "unknown kind", ref: "quiz:1", wantErr: ErrInvalidRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, id, err := ParseRef(tt.ref)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantID, id)
		})
	}
	assert.Equal(t, "exam:42", MakeRef(KindExam, "42"))
}

func TestCatalog(t *testing.T) {
	snap := schoolSnapshot()

	refs := func(list []Assessment) []string {
		res := make([]string, 0, len(list))
		for _, a := range list {
			res = append(res, a.Ref)
		}
		return res
	}

	t.Run("all, most recent first", func(t *testing.T) {
		got := Catalog(snap, "")
		assert.Equal(t, []string{"exam:e2", "test:t2", "exam:e1", "test:t1", "test:t3"}, refs(got))
	})

	t.Run("class filter", func(t *testing.T) {
		got := Catalog(snap, "c6")
		assert.Equal(t, []string{"exam:e2", "test:t3"}, refs(got))
	})

	t.Run("unknown class", func(t *testing.T) {
		assert.Empty(t, Catalog(snap, "lol"))
	})

	t.Run("joins and defaults", func(t *testing.T) {
		byRef := make(map[string]Assessment)
		for _, a := range Catalog(snap, "") {
			byRef[a.Ref] = a
		}

		t1 := byRef["test:t1"]
		require.NotNil(t, t1.Class)
		require.NotNil(t, t1.Section)
		require.NotNil(t, t1.Subject)
		assert.Equal(t, "Grade 5 A", t1.ClassLabel())
		assert.Equal(t, "Mathematics", t1.Subject.Name)
		assert.InDelta(t, 16.5, t1.PassThreshold(), 1e-9)

		t3 := byRef["test:t3"]
		assert.Nil(t, t3.Section)
		assert.Equal(t, "Grade 6", t3.ClassLabel())

		e2 := byRef["exam:e2"]
		assert.Equal(t, KindExam, e2.Kind)
		assert.Nil(t, e2.Subject)
		assert.Equal(t, DefaultExamTotalMarks, e2.TotalMarks)
		assert.Equal(t, 80.0, byRef["exam:e1"].TotalMarks)
	})

	t.Run("unresolved class and section are kept", func(t *testing.T) {
		snap := Snapshot{Tests: []Test{{ID: "t", ClassID: "gone", SectionID: "gone", SubjectID: "gone", TotalMarks: 10}}}
		got := Catalog(snap, "")
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Class)
		assert.Nil(t, got[0].Section)
		assert.Nil(t, got[0].Subject)
		assert.Equal(t, Placeholder, got[0].ClassLabel())
	})
}

func TestMarks(t *testing.T) {
	snap := schoolSnapshot()
	snap.TestMarks = append(snap.TestMarks, present("gone", "s1", 10), present("t1", "ghost", 10))

	marks := Marks(snap)
	require.Len(t, marks, len(snap.TestMarks)+len(snap.ExamMarks))

	first := marks[0]
	assert.Equal(t, KindTest, first.AssessmentKind)
	assert.Equal(t, "math", first.SubjectID, "test marks take the subject of their test")
	require.NotNil(t, first.Subject)
	require.NotNil(t, first.Student)
	assert.Equal(t, "Student 01", first.Student.FullName())

	orphan := marks[len(snap.TestMarks)-2]
	assert.Nil(t, orphan.Assessment)
	assert.Empty(t, orphan.SubjectID)

	ghost := marks[len(snap.TestMarks)-1]
	assert.NotNil(t, ghost.Assessment)
	assert.Nil(t, ghost.Student)

	sci := marks[len(snap.TestMarks)+1]
	assert.Equal(t, KindExam, sci.AssessmentKind)
	require.NotNil(t, sci.Subject)
	assert.Equal(t, "Science", sci.Subject.Name)

	absent := marks[2]
	assert.True(t, absent.IsAbsent)
	assert.False(t, absent.passed())
}

func TestDuplicateAssessmentRows(t *testing.T) {
	snap := Snapshot{
		Classes:  []ClassRef{{ID: "c5", Name: "Grade 5"}},
		Students: students(1),
		Tests: []Test{
			{ID: "t", Name: "Quiz", Date: day(2), ClassID: "c5", SubjectID: "math", TotalMarks: 10},
			{ID: "t", Name: "Quiz (copy)", Date: day(3), ClassID: "c5", SubjectID: "math", TotalMarks: 20},
		},
		Exams: []Exam{
			{ID: "e", Name: "Final", Date: day(5), ClassID: "c5"},
			{ID: "e", Name: "Final", Date: day(5), ClassID: "c5"},
		},
		TestMarks: []TestMark{present("t", "s1", 8)},
		ExamMarks: []ExamMark{examMark("e", "s1", "math", 50)},
	}

	list := Catalog(snap, "")
	require.Len(t, list, 2)
	assert.Equal(t, "exam:e", list[0].Ref)
	assert.Equal(t, "test:t", list[1].Ref)
	assert.Equal(t, "Quiz", list[1].Name)
	assert.Equal(t, 10.0, list[1].TotalMarks)

	classes := ClassSummaries(snap, "")
	require.Len(t, classes.Rows, 1)
	assert.Equal(t, 1, classes.Rows[0].TotalTests)
	assert.Equal(t, 1, classes.Rows[0].TotalExams)
	assert.Equal(t, 2, classes.Rows[0].TotalStudents)
	assert.Equal(t, 2, classes.Rows[0].PassedStudents)

	res, state := AssessmentResults(snap, "test:t")
	assert.Equal(t, StateReady, state)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 1, res.Stats.TotalStudents)
	assert.Equal(t, 10.0, res.Stats.TotalMarks)
}
