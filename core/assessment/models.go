package assessment

import (
	"strings"
	"time"
)

// Kind tells which source table an Assessment comes from.
type Kind string

const (
	KindTest Kind = "test"
	KindExam Kind = "exam"
)

// Grading policy
const (
	PassRatio             = 0.33
	DefaultExamTotalMarks = 100.0
	TopPerformersLimit    = 10
	NeedsAttentionLimit   = 10
	NeedsAttentionBelow   = 40.0

	// Placeholder is displayed in place of an unresolved lookup.
	Placeholder = "N/A"
)

type (
	ClassRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	SectionRef struct {
		ID      string `json:"id"`
		ClassID string `json:"class_id"`
		Name    string `json:"name"`
	}

	SubjectRef struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	Student struct {
		ID         string `json:"id"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		RollNumber string `json:"roll_number"`
	}
)

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Raw records, as stored.
type (
	// Test is a single-subject assessment; it always carries its total marks.
	Test struct {
		ID         string
		Name       string
		Date       time.Time
		ClassID    string
		SectionID  string // optional
		SubjectID  string
		TotalMarks float64
	}

	// Exam may span several subjects (the subject comes with each mark) and may lack total marks.
	Exam struct {
		ID         string
		Name       string
		Date       time.Time
		ClassID    string
		SectionID  string   // optional
		TotalMarks *float64 // DefaultExamTotalMarks when nil
	}

	TestMark struct {
		ID            string
		TestID        string
		StudentID     string
		ObtainedMarks *float64
		IsAbsent      bool
	}

	ExamMark struct {
		ID            string
		ExamID        string
		StudentID     string
		SubjectID     string
		ObtainedMarks *float64
		IsAbsent      bool
	}
)

// Snapshot is the already-fetched raw data every report is computed from.
// It is never modified by the engine.
type Snapshot struct {
	Tests     []Test
	Exams     []Exam
	TestMarks []TestMark
	ExamMarks []ExamMark

	Classes  []ClassRef
	Sections []SectionRef
	Subjects []SubjectRef
	Students []Student

	LoadedAt time.Time
}

// Assessment is the unified view of a Test or an Exam.
type Assessment struct {
	Ref        string    `json:"ref"`
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	ClassID    string    `json:"class_id"`
	SectionID  string    `json:"section_id,omitempty"`
	SubjectID  string    `json:"subject_id,omitempty"` // tests only
	TotalMarks float64   `json:"total_marks"`

	Class   *ClassRef   `json:"classes"`
	Section *SectionRef `json:"sections"`
	Subject *SubjectRef `json:"subjects,omitempty"`
}

// PassThreshold is the minimum obtained marks needed to pass the Assessment.
func (a Assessment) PassThreshold() float64 {
	return a.TotalMarks * PassRatio
}

// ClassLabel is "<class> <section>", or only the class name when there is no section.
func (a Assessment) ClassLabel() string {
	name := Placeholder
	if a.Class != nil {
		name = a.Class.Name
	}
	var section string
	if a.Section != nil {
		section = a.Section.Name
	}
	return strings.TrimSpace(name + " " + section)
}

// MarkRecord is a raw mark joined to its student, subject and parent assessment.
// Unresolved joins are left nil.
type MarkRecord struct {
	AssessmentID   string
	AssessmentKind Kind
	StudentID      string
	SubjectID      string
	ObtainedMarks  *float64
	IsAbsent       bool

	Student    *Student
	Subject    *SubjectRef
	Assessment *Assessment
}

// Obtained returns the obtained marks of a present mark.
// A present mark without a value counts as zero.
func (m MarkRecord) Obtained() float64 {
	if m.ObtainedMarks == nil {
		return 0
	}
	return *m.ObtainedMarks
}

func (m MarkRecord) passed() bool {
	return !m.IsAbsent && m.Assessment != nil && m.Obtained() >= m.Assessment.PassThreshold()
}
