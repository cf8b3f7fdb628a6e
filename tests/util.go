package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
	"github.com/trezcool/masomo-reports/storage/database"
)

func fPtr(f float64) *float64 { return &f }

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

// SchoolSnapshot returns a small school: Grade 5 (sections A & B) and Grade 6,
// three subjects, six students, three tests and two exams.
func SchoolSnapshot() assessment.Snapshot {
	snap := assessment.Snapshot{
		Classes: []assessment.ClassRef{
			{ID: "c5", Name: "Grade 5"},
			{ID: "c6", Name: "Grade 6"},
		},
		Sections: []assessment.SectionRef{
			{ID: "c5a", ClassID: "c5", Name: "A"},
			{ID: "c5b", ClassID: "c5", Name: "B"},
		},
		Subjects: []assessment.SubjectRef{
			{ID: "eng", Name: "English"},
			{ID: "math", Name: "Mathematics"},
			{ID: "sci", Name: "Science"},
		},
		Tests: []assessment.Test{
			{ID: "t1", Name: "Algebra quiz", Date: day(4), ClassID: "c5", SectionID: "c5a", SubjectID: "math", TotalMarks: 50},
			{ID: "t2", Name: "Reading test", Date: day(10), ClassID: "c5", SectionID: "c5b", SubjectID: "eng", TotalMarks: 20},
			{ID: "t3", Name: "Fractions", Date: day(1), ClassID: "c6", SubjectID: "math", TotalMarks: 100},
		},
		Exams: []assessment.Exam{
			{ID: "e1", Name: "Mid term", Date: day(10), ClassID: "c5", SectionID: "c5a", TotalMarks: fPtr(80)},
			{ID: "e2", Name: "Mock", Date: day(15), ClassID: "c6"},
		},
		TestMarks: []assessment.TestMark{
			{ID: "tm1", TestID: "t1", StudentID: "s1", ObtainedMarks: fPtr(45)},
			{ID: "tm2", TestID: "t1", StudentID: "s2", ObtainedMarks: fPtr(10)},
			{ID: "tm3", TestID: "t1", StudentID: "s3", IsAbsent: true},
			{ID: "tm4", TestID: "t2", StudentID: "s4", ObtainedMarks: fPtr(18)},
			{ID: "tm5", TestID: "t2", StudentID: "s5", ObtainedMarks: fPtr(6)},
			{ID: "tm6", TestID: "t3", StudentID: "s6", ObtainedMarks: fPtr(70)},
		},
		ExamMarks: []assessment.ExamMark{
			{ID: "em1", ExamID: "e1", StudentID: "s1", SubjectID: "math", ObtainedMarks: fPtr(60)},
			{ID: "em2", ExamID: "e1", StudentID: "s1", SubjectID: "sci", ObtainedMarks: fPtr(20)},
			{ID: "em3", ExamID: "e1", StudentID: "s2", SubjectID: "math", ObtainedMarks: fPtr(30)},
			{ID: "em4", ExamID: "e1", StudentID: "s3", SubjectID: "sci", IsAbsent: true},
			{ID: "em5", ExamID: "e2", StudentID: "s6", SubjectID: "eng", ObtainedMarks: fPtr(35)},
		},
	}
	for i := 1; i <= 6; i++ {
		snap.Students = append(snap.Students, assessment.Student{
			ID:         fmt.Sprintf("s%d", i),
			FirstName:  "Student",
			LastName:   fmt.Sprintf("%02d", i),
			RollNumber: fmt.Sprintf("R%02d", i),
		})
	}
	return snap
}

// NewSQLiteDB opens a migrated SQLite database living in a temporary directory.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := &core.Config{}
	conf.Database.Engine = database.EngineSQLite
	conf.Database.Path = filepath.Join(t.TempDir(), "masomo_test.db")

	db, err := database.Open(context.Background(), conf)
	if err != nil {
		t.Fatalf("NewSQLiteDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, "up"); err != nil {
		t.Fatalf("NewSQLiteDB() failed: %v", err)
	}
	return db
}

func nullString(s string) null.String { return null.NewString(s, s != "") }

// SeedSnapshot inserts every row of snap into db.
func SeedSnapshot(t *testing.T, db *sqlx.DB, snap assessment.Snapshot) {
	t.Helper()

	const dateFmt = "2006-01-02"
	exec := func(query string, args ...interface{}) {
		if _, err := db.Exec(db.Rebind(query), args...); err != nil {
			t.Fatalf("SeedSnapshot() failed: %v", err)
		}
	}

	for _, c := range snap.Classes {
		exec("INSERT INTO classes (id, name) VALUES (?, ?)", c.ID, c.Name)
	}
	for _, s := range snap.Sections {
		exec("INSERT INTO sections (id, class_id, name) VALUES (?, ?, ?)", s.ID, s.ClassID, s.Name)
	}
	for _, s := range snap.Subjects {
		exec("INSERT INTO subjects (id, name) VALUES (?, ?)", s.ID, s.Name)
	}
	for _, s := range snap.Students {
		exec("INSERT INTO students (id, first_name, last_name, roll_number) VALUES (?, ?, ?, ?)",
			s.ID, s.FirstName, s.LastName, s.RollNumber)
	}
	for _, a := range snap.Tests {
		exec("INSERT INTO tests (id, name, test_date, class_id, section_id, subject_id, total_marks) VALUES (?, ?, ?, ?, ?, ?, ?)",
			a.ID, a.Name, a.Date.Format(dateFmt), a.ClassID, nullString(a.SectionID), a.SubjectID, a.TotalMarks)
	}
	for _, a := range snap.Exams {
		exec("INSERT INTO exams (id, name, exam_date, class_id, section_id, total_marks) VALUES (?, ?, ?, ?, ?, ?)",
			a.ID, a.Name, a.Date.Format(dateFmt), a.ClassID, nullString(a.SectionID), null.Float64FromPtr(a.TotalMarks))
	}
	for _, m := range snap.TestMarks {
		exec("INSERT INTO test_marks (id, test_id, student_id, obtained_marks, is_absent) VALUES (?, ?, ?, ?, ?)",
			m.ID, m.TestID, m.StudentID, null.Float64FromPtr(m.ObtainedMarks), m.IsAbsent)
	}
	for _, m := range snap.ExamMarks {
		exec("INSERT INTO exam_marks (id, exam_id, student_id, subject_id, obtained_marks, is_absent) VALUES (?, ?, ?, ?, ?, ?)",
			m.ID, m.ExamID, m.StudentID, m.SubjectID, null.Float64FromPtr(m.ObtainedMarks), m.IsAbsent)
	}
}
