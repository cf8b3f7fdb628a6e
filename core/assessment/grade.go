package assessment

// ResultStatus is the outcome of a single mark.
type ResultStatus string

const (
	StatusPass   ResultStatus = "pass"
	StatusFail   ResultStatus = "fail"
	StatusAbsent ResultStatus = "absent"
)

var gradeScale = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
	{33, "E"},
}

// Grade maps a percentage onto the letter grade scale. Percentages above 100 stay "A+".
func Grade(percentage float64) string {
	for _, g := range gradeScale {
		if percentage >= g.min {
			return g.grade
		}
	}
	return "F"
}
