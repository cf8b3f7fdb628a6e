package assessment

import "sort"

type (
	StudentPerformance struct {
		StudentID          string  `json:"student_id"`
		StudentName        string  `json:"student_name"`
		RollNumber         string  `json:"roll_number"`
		TestCount          int     `json:"test_count"`
		ExamCount          int     `json:"exam_count"`
		AssessmentCount    int     `json:"assessment_count"`
		PassCount          int     `json:"pass_count"`
		TotalMarksObtained float64 `json:"total_marks_obtained"`
		TotalMaxMarks      float64 `json:"total_max_marks"`
		AveragePercentage  float64 `json:"average_percentage"`
	}

	RankingStats struct {
		TotalStudents       int     `json:"total_students"`
		TopPerformersCount  int     `json:"top_performers_count"`
		NeedsAttentionCount int     `json:"needs_attention_count"`
		AverageScore        float64 `json:"average_score"`
	}

	Ranking struct {
		TopPerformers  []StudentPerformance `json:"top_performers"`
		NeedsAttention []StudentPerformance `json:"needs_attention"`
		Stats          RankingStats         `json:"stats"`
	}
)

// Rank merges every present test and exam mark of each student into one performance record,
// school wide, and ranks students by average percentage.
//
// NeedsAttention holds the first NeedsAttentionLimit students below NeedsAttentionBelow percent
// in that same descending order, i.e. the best of the at-risk students rather than the worst.
// TODO: confirm with the product owner whether the at-risk list should start from the lowest scores.
func Rank(snap Snapshot) Ranking {
	idx := newIndex(snap)

	perfs := make([]*StudentPerformance, 0)
	byStudent := make(map[string]*StudentPerformance)
	for _, m := range idx.marks() {
		if m.IsAbsent || m.Student == nil || m.Assessment == nil {
			continue
		}
		p, ok := byStudent[m.StudentID]
		if !ok {
			p = &StudentPerformance{
				StudentID:   m.StudentID,
				StudentName: m.Student.FullName(),
				RollNumber:  m.Student.RollNumber,
			}
			byStudent[m.StudentID] = p
			perfs = append(perfs, p)
		}
		p.TotalMarksObtained += m.Obtained()
		p.TotalMaxMarks += m.Assessment.TotalMarks
		if m.AssessmentKind == KindTest {
			p.TestCount++
		} else {
			p.ExamCount++
		}
		if m.passed() {
			p.PassCount++
		}
	}

	ranked := make([]StudentPerformance, 0, len(perfs))
	var sum float64
	for _, p := range perfs {
		p.AssessmentCount = p.TestCount + p.ExamCount
		if p.AssessmentCount == 0 {
			continue
		}
		p.AveragePercentage = round2(percent(p.TotalMarksObtained, p.TotalMaxMarks))
		sum += p.AveragePercentage
		ranked = append(ranked, *p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AveragePercentage > ranked[j].AveragePercentage
	})

	res := Ranking{
		TopPerformers:  make([]StudentPerformance, 0, TopPerformersLimit),
		NeedsAttention: make([]StudentPerformance, 0, NeedsAttentionLimit),
	}
	for i, p := range ranked {
		if i < TopPerformersLimit {
			res.TopPerformers = append(res.TopPerformers, p)
		}
		if p.AveragePercentage < NeedsAttentionBelow && len(res.NeedsAttention) < NeedsAttentionLimit {
			res.NeedsAttention = append(res.NeedsAttention, p)
		}
	}

	res.Stats = RankingStats{
		TotalStudents:       len(ranked),
		TopPerformersCount:  len(res.TopPerformers),
		NeedsAttentionCount: len(res.NeedsAttention),
	}
	if len(ranked) > 0 {
		res.Stats.AverageScore = round1(sum / float64(len(ranked)))
	}
	return res
}
