package assessment

import "math"

// percent returns num/den*100, or 0 when den is 0.
func percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func round1(x float64) float64 { return round(x, 1) }
func round2(x float64) float64 { return round(x, 2) }
