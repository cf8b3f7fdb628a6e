package assessment

import "github.com/pkg/errors"

// ReportKind selects one of the reports.
type ReportKind string

const (
	ReportTestResults    ReportKind = "test-results"
	ReportClassSummary   ReportKind = "class-summary"
	ReportSubjectSummary ReportKind = "subject-summary"
	ReportTopPerformers  ReportKind = "top-performers"
)

var (
	ReportKinds = []ReportKind{ReportTestResults, ReportClassSummary, ReportSubjectSummary, ReportTopPerformers}

	ErrUnknownReportKind = errors.New("unknown report kind")
)

func ParseReportKind(s string) (ReportKind, error) {
	for _, k := range ReportKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownReportKind
}

// ReportState tells a computed report apart from "nothing to show".
type ReportState string

const (
	StateReady      ReportState = "ready"
	StateNoData     ReportState = "no_data"
	StateUnselected ReportState = "unselected"
)

// Filter holds the active report filters. Empty fields are not applied.
type Filter struct {
	ClassID       string `json:"class_id,omitempty"`
	SubjectID     string `json:"subject_id,omitempty"`
	AssessmentRef string `json:"assessment,omitempty"` // see MakeRef
}

// Report is the result of one report kind; only the field matching Kind is set.
type Report struct {
	Kind   ReportKind  `json:"kind"`
	State  ReportState `json:"state"`
	Filter Filter      `json:"filter"`

	TestResults    *TestResults   `json:"test_results,omitempty"`
	ClassSummary   *ClassReport   `json:"class_summary,omitempty"`
	SubjectSummary *SubjectReport `json:"subject_summary,omitempty"`
	TopPerformers  *Ranking       `json:"top_performers,omitempty"`
}

// Select computes the report of the given kind over snap.
// It is a pure function of its inputs: calling it twice on the same snapshot yields the same report.
func Select(snap Snapshot, kind ReportKind, filter Filter) (Report, error) {
	rep := Report{Kind: kind, State: StateReady, Filter: filter}
	switch kind {
	case ReportTestResults:
		res, state := AssessmentResults(snap, filter.AssessmentRef)
		rep.TestResults = &res
		rep.State = state
	case ReportClassSummary:
		res := ClassSummaries(snap, filter.ClassID)
		rep.ClassSummary = &res
	case ReportSubjectSummary:
		res := SubjectSummaries(snap, filter.SubjectID)
		rep.SubjectSummary = &res
	case ReportTopPerformers:
		res := Rank(snap)
		rep.TopPerformers = &res
	default:
		return Report{}, errors.Wrapf(ErrUnknownReportKind, "%q", kind)
	}
	return rep, nil
}
