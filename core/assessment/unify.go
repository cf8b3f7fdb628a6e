package assessment

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidRef = errors.New("invalid assessment reference")

// MakeRef builds the reference used to select a single assessment, e.g. "test:42".
func MakeRef(kind Kind, id string) string {
	return string(kind) + ":" + id
}

// ParseRef splits a reference built with MakeRef.
func ParseRef(ref string) (Kind, string, error) {
	parts := strings.SplitN(strings.TrimSpace(ref), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", ErrInvalidRef
	}
	switch kind := Kind(parts[0]); kind {
	case KindTest, KindExam:
		return kind, parts[1], nil
	default:
		return "", "", ErrInvalidRef
	}
}

type assessmentKey struct {
	kind Kind
	id   string
}

// index joins the raw snapshot rows onto their lookups.
// Everything it holds is derived: the snapshot itself is left untouched.
type index struct {
	classes  map[string]*ClassRef
	sections map[string]*SectionRef
	subjects map[string]*SubjectRef
	students map[string]*Student

	assessments map[assessmentKey]*Assessment
	tests       []*Assessment // snapshot order
	exams       []*Assessment // snapshot order
	testMarks   []MarkRecord
	examMarks   []MarkRecord

	marksByAssessment map[assessmentKey][]MarkRecord
}

func newIndex(snap Snapshot) *index {
	idx := &index{
		classes:           make(map[string]*ClassRef, len(snap.Classes)),
		sections:          make(map[string]*SectionRef, len(snap.Sections)),
		subjects:          make(map[string]*SubjectRef, len(snap.Subjects)),
		students:          make(map[string]*Student, len(snap.Students)),
		assessments:       make(map[assessmentKey]*Assessment, len(snap.Tests)+len(snap.Exams)),
		marksByAssessment: make(map[assessmentKey][]MarkRecord),
	}
	for i := range snap.Classes {
		c := snap.Classes[i]
		idx.classes[c.ID] = &c
	}
	for i := range snap.Sections {
		s := snap.Sections[i]
		idx.sections[s.ID] = &s
	}
	for i := range snap.Subjects {
		s := snap.Subjects[i]
		idx.subjects[s.ID] = &s
	}
	for i := range snap.Students {
		s := snap.Students[i]
		idx.students[s.ID] = &s
	}

	// duplicated rows keep the first occurrence
	idx.tests = make([]*Assessment, 0, len(snap.Tests))
	for _, t := range snap.Tests {
		if _, ok := idx.assessments[assessmentKey{KindTest, t.ID}]; ok {
			continue
		}
		a := &Assessment{
			Ref:        MakeRef(KindTest, t.ID),
			ID:         t.ID,
			Kind:       KindTest,
			Name:       t.Name,
			Date:       t.Date,
			ClassID:    t.ClassID,
			SectionID:  t.SectionID,
			SubjectID:  t.SubjectID,
			TotalMarks: t.TotalMarks,
			Class:      idx.classes[t.ClassID],
			Section:    idx.section(t.SectionID),
			Subject:    idx.subjects[t.SubjectID],
		}
		idx.tests = append(idx.tests, a)
		idx.assessments[assessmentKey{KindTest, t.ID}] = a
	}

	idx.exams = make([]*Assessment, 0, len(snap.Exams))
	for _, e := range snap.Exams {
		if _, ok := idx.assessments[assessmentKey{KindExam, e.ID}]; ok {
			continue
		}
		total := DefaultExamTotalMarks
		if e.TotalMarks != nil {
			total = *e.TotalMarks
		}
		a := &Assessment{
			Ref:        MakeRef(KindExam, e.ID),
			ID:         e.ID,
			Kind:       KindExam,
			Name:       e.Name,
			Date:       e.Date,
			ClassID:    e.ClassID,
			SectionID:  e.SectionID,
			TotalMarks: total,
			Class:      idx.classes[e.ClassID],
			Section:    idx.section(e.SectionID),
		}
		idx.exams = append(idx.exams, a)
		idx.assessments[assessmentKey{KindExam, e.ID}] = a
	}

	idx.testMarks = make([]MarkRecord, 0, len(snap.TestMarks))
	for _, m := range snap.TestMarks {
		rec := MarkRecord{
			AssessmentID:   m.TestID,
			AssessmentKind: KindTest,
			StudentID:      m.StudentID,
			ObtainedMarks:  copyFloat(m.ObtainedMarks),
			IsAbsent:       m.IsAbsent,
			Student:        idx.students[m.StudentID],
			Assessment:     idx.assessments[assessmentKey{KindTest, m.TestID}],
		}
		if rec.Assessment != nil { // the subject of a test mark is the test's
			rec.SubjectID = rec.Assessment.SubjectID
			rec.Subject = rec.Assessment.Subject
		}
		idx.testMarks = append(idx.testMarks, rec)
		idx.addMark(rec)
	}

	idx.examMarks = make([]MarkRecord, 0, len(snap.ExamMarks))
	for _, m := range snap.ExamMarks {
		rec := MarkRecord{
			AssessmentID:   m.ExamID,
			AssessmentKind: KindExam,
			StudentID:      m.StudentID,
			SubjectID:      m.SubjectID,
			ObtainedMarks:  copyFloat(m.ObtainedMarks),
			IsAbsent:       m.IsAbsent,
			Student:        idx.students[m.StudentID],
			Subject:        idx.subjects[m.SubjectID],
			Assessment:     idx.assessments[assessmentKey{KindExam, m.ExamID}],
		}
		idx.examMarks = append(idx.examMarks, rec)
		idx.addMark(rec)
	}
	return idx
}

func (idx *index) section(id string) *SectionRef {
	if id == "" {
		return nil
	}
	return idx.sections[id]
}

func (idx *index) addMark(rec MarkRecord) {
	key := assessmentKey{rec.AssessmentKind, rec.AssessmentID}
	idx.marksByAssessment[key] = append(idx.marksByAssessment[key], rec)
}

func (idx *index) marks() []MarkRecord {
	all := make([]MarkRecord, 0, len(idx.testMarks)+len(idx.examMarks))
	all = append(all, idx.testMarks...)
	return append(all, idx.examMarks...)
}

// Catalog returns every test and exam as an Assessment, most recent first.
// Assessments sharing a date keep tests before exams, each in snapshot order.
// A non-empty classID narrows the catalog to that class.
func Catalog(snap Snapshot, classID string) []Assessment {
	idx := newIndex(snap)
	res := make([]Assessment, 0, len(idx.tests)+len(idx.exams))
	for _, list := range [][]*Assessment{idx.tests, idx.exams} {
		for _, a := range list {
			if classID != "" && a.ClassID != classID {
				continue
			}
			res = append(res, *a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	return res
}

// Marks returns every test mark followed by every exam mark, joined to their context.
func Marks(snap Snapshot) []MarkRecord {
	return newIndex(snap).marks()
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
