package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
)

type (
	lookupRow struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}

	sectionRow struct {
		ID      string `db:"id"`
		ClassID string `db:"class_id"`
		Name    string `db:"name"`
	}

	studentRow struct {
		ID         string      `db:"id"`
		FirstName  null.String `db:"first_name"`
		LastName   null.String `db:"last_name"`
		RollNumber null.String `db:"roll_number"`
	}

	testRow struct {
		ID         string      `db:"id"`
		Name       string      `db:"name"`
		Date       string      `db:"test_date"`
		ClassID    string      `db:"class_id"`
		SectionID  null.String `db:"section_id"`
		SubjectID  string      `db:"subject_id"`
		TotalMarks float64     `db:"total_marks"`
	}

	examRow struct {
		ID         string       `db:"id"`
		Name       string       `db:"name"`
		Date       string       `db:"exam_date"`
		ClassID    string       `db:"class_id"`
		SectionID  null.String  `db:"section_id"`
		TotalMarks null.Float64 `db:"total_marks"`
	}

	testMarkRow struct {
		ID            string       `db:"id"`
		TestID        string       `db:"test_id"`
		StudentID     string       `db:"student_id"`
		ObtainedMarks null.Float64 `db:"obtained_marks"`
		IsAbsent      bool         `db:"is_absent"`
	}

	examMarkRow struct {
		ID            string       `db:"id"`
		ExamID        string       `db:"exam_id"`
		StudentID     string       `db:"student_id"`
		SubjectID     string       `db:"subject_id"`
		ObtainedMarks null.Float64 `db:"obtained_marks"`
		IsAbsent      bool         `db:"is_absent"`
	}
)

// date layouts returned by lib/pq and modernc.org/sqlite for DATE columns
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q", s)
}

type assessmentRepository struct {
	db *sqlx.DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *sqlx.DB) *assessmentRepository {
	return &assessmentRepository{db: db}
}

// LoadSnapshot reads every table the reports need inside one transaction.
func (repo assessmentRepository) LoadSnapshot(ctx context.Context) (assessment.Snapshot, error) {
	var opts *sql.TxOptions
	if repo.db.DriverName() == "postgres" {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	tx, err := repo.db.BeginTxx(ctx, opts)
	if err != nil {
		return assessment.Snapshot{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	snap, err := loadSnapshot(ctx, tx)
	if err != nil {
		return assessment.Snapshot{}, err
	}
	if err = tx.Commit(); err != nil {
		return assessment.Snapshot{}, errors.Wrap(err, "committing transaction")
	}
	snap.LoadedAt = time.Now().UTC()
	return snap, nil
}

func selectAll(ctx context.Context, q core.DBQueryer, dest interface{}, table, columns string) error {
	order := core.DBOrdering{Field: "id", Ascending: true}
	query := "SELECT " + columns + " FROM " + table + " ORDER BY " + order.String()
	if err := q.SelectContext(ctx, dest, q.Rebind(query)); err != nil {
		return errors.Wrapf(err, "loading %s", table)
	}
	return nil
}

func loadSnapshot(ctx context.Context, q core.DBQueryer) (assessment.Snapshot, error) {
	var (
		snap      assessment.Snapshot
		classes   []lookupRow
		sections  []sectionRow
		subjects  []lookupRow
		students  []studentRow
		tests     []testRow
		exams     []examRow
		testMarks []testMarkRow
		examMarks []examMarkRow
	)

	loads := []struct {
		dest    interface{}
		table   string
		columns string
	}{
		{&classes, "classes", "id, name"},
		{&sections, "sections", "id, class_id, name"},
		{&subjects, "subjects", "id, name"},
		{&students, "students", "id, first_name, last_name, roll_number"},
		{&tests, "tests", "id, name, test_date, class_id, section_id, subject_id, total_marks"},
		{&exams, "exams", "id, name, exam_date, class_id, section_id, total_marks"},
		{&testMarks, "test_marks", "id, test_id, student_id, obtained_marks, is_absent"},
		{&examMarks, "exam_marks", "id, exam_id, student_id, subject_id, obtained_marks, is_absent"},
	}
	for _, l := range loads {
		if err := selectAll(ctx, q, l.dest, l.table, l.columns); err != nil {
			return snap, err
		}
	}

	snap.Classes = make([]assessment.ClassRef, 0, len(classes))
	for _, r := range classes {
		snap.Classes = append(snap.Classes, assessment.ClassRef{ID: r.ID, Name: r.Name})
	}
	snap.Sections = make([]assessment.SectionRef, 0, len(sections))
	for _, r := range sections {
		snap.Sections = append(snap.Sections, assessment.SectionRef{ID: r.ID, ClassID: r.ClassID, Name: r.Name})
	}
	snap.Subjects = make([]assessment.SubjectRef, 0, len(subjects))
	for _, r := range subjects {
		snap.Subjects = append(snap.Subjects, assessment.SubjectRef{ID: r.ID, Name: r.Name})
	}
	snap.Students = make([]assessment.Student, 0, len(students))
	for _, r := range students {
		snap.Students = append(snap.Students, assessment.Student{
			ID:         r.ID,
			FirstName:  r.FirstName.String,
			LastName:   r.LastName.String,
			RollNumber: r.RollNumber.String,
		})
	}

	snap.Tests = make([]assessment.Test, 0, len(tests))
	for _, r := range tests {
		date, err := parseDate(r.Date)
		if err != nil {
			return snap, errors.Wrapf(err, "test %s", r.ID)
		}
		snap.Tests = append(snap.Tests, assessment.Test{
			ID:         r.ID,
			Name:       r.Name,
			Date:       date,
			ClassID:    r.ClassID,
			SectionID:  r.SectionID.String,
			SubjectID:  r.SubjectID,
			TotalMarks: r.TotalMarks,
		})
	}
	snap.Exams = make([]assessment.Exam, 0, len(exams))
	for _, r := range exams {
		date, err := parseDate(r.Date)
		if err != nil {
			return snap, errors.Wrapf(err, "exam %s", r.ID)
		}
		snap.Exams = append(snap.Exams, assessment.Exam{
			ID:         r.ID,
			Name:       r.Name,
			Date:       date,
			ClassID:    r.ClassID,
			SectionID:  r.SectionID.String,
			TotalMarks: r.TotalMarks.Ptr(),
		})
	}

	snap.TestMarks = make([]assessment.TestMark, 0, len(testMarks))
	for _, r := range testMarks {
		snap.TestMarks = append(snap.TestMarks, assessment.TestMark{
			ID:            r.ID,
			TestID:        r.TestID,
			StudentID:     r.StudentID,
			ObtainedMarks: r.ObtainedMarks.Ptr(),
			IsAbsent:      r.IsAbsent,
		})
	}
	snap.ExamMarks = make([]assessment.ExamMark, 0, len(examMarks))
	for _, r := range examMarks {
		snap.ExamMarks = append(snap.ExamMarks, assessment.ExamMark{
			ID:            r.ID,
			ExamID:        r.ExamID,
			StudentID:     r.StudentID,
			SubjectID:     r.SubjectID,
			ObtainedMarks: r.ObtainedMarks.Ptr(),
			IsAbsent:      r.IsAbsent,
		})
	}
	return snap, nil
}
