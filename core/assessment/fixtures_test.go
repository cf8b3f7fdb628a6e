package assessment

import (
	"fmt"
	"time"
)

func fPtr(f float64) *float64 { return &f }

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func present(testID, studentID string, obtained float64) TestMark {
	return TestMark{TestID: testID, StudentID: studentID, ObtainedMarks: fPtr(obtained)}
}

func absentMark(testID, studentID string) TestMark {
	return TestMark{TestID: testID, StudentID: studentID, IsAbsent: true}
}

func examMark(examID, studentID, subjectID string, obtained float64) ExamMark {
	return ExamMark{ExamID: examID, StudentID: studentID, SubjectID: subjectID, ObtainedMarks: fPtr(obtained)}
}

func students(n int) []Student {
	res := make([]Student, 0, n)
	for i := 1; i <= n; i++ {
		res = append(res, Student{
			ID:         fmt.Sprintf("s%d", i),
			FirstName:  "Student",
			LastName:   fmt.Sprintf("%02d", i),
			RollNumber: fmt.Sprintf("R%02d", i),
		})
	}
	return res
}

// schoolSnapshot is a small but complete school:
// Grade 5 (sections A & B), Grade 6 (no section); Maths, English and Science.
func schoolSnapshot() Snapshot {
	return Snapshot{
		Classes: []ClassRef{
			{ID: "c5", Name: "Grade 5"},
			{ID: "c6", Name: "Grade 6"},
		},
		Sections: []SectionRef{
			{ID: "c5a", ClassID: "c5", Name: "A"},
			{ID: "c5b", ClassID: "c5", Name: "B"},
		},
		Subjects: []SubjectRef{
			{ID: "math", Name: "Mathematics"},
			{ID: "eng", Name: "English"},
			{ID: "sci", Name: "Science"},
		},
		Students: students(6),
		Tests: []Test{
			{ID: "t1", Name: "Algebra quiz", Date: day(4), ClassID: "c5", SectionID: "c5a", SubjectID: "math", TotalMarks: 50},
			{ID: "t2", Name: "Reading test", Date: day(10), ClassID: "c5", SectionID: "c5b", SubjectID: "eng", TotalMarks: 20},
			{ID: "t3", Name: "Fractions", Date: day(1), ClassID: "c6", SubjectID: "math", TotalMarks: 100},
		},
		Exams: []Exam{
			{ID: "e1", Name: "Mid term", Date: day(10), ClassID: "c5", SectionID: "c5a", TotalMarks: fPtr(80)},
			{ID: "e2", Name: "Mock", Date: day(15), ClassID: "c6"},
		},
		TestMarks: []TestMark{
			present("t1", "s1", 45),
			present("t1", "s2", 10),
			absentMark("t1", "s3"),
			present("t2", "s4", 18),
			present("t2", "s5", 6),
			present("t3", "s6", 70),
		},
		ExamMarks: []ExamMark{
			examMark("e1", "s1", "math", 60),
			examMark("e1", "s1", "sci", 20),
			examMark("e1", "s2", "math", 30),
			{ExamID: "e1", StudentID: "s3", SubjectID: "sci", IsAbsent: true},
			examMark("e2", "s6", "eng", 35),
		},
	}
}
