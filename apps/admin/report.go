package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
)

// minimum similarity for a "did you mean" suggestion
const suggestionCutoff = 0.6

type reportArgs struct {
	kind, class, subject, assessment string
}

type named struct {
	id, name string
}

// similarity is the difflib ratio of a and b compared rune by rune, ignoring case.
func similarity(a, b string) float64 {
	split := func(s string) []string { return strings.Split(strings.ToLower(s), "") }
	return difflib.NewMatcher(split(a), split(b)).Ratio()
}

// closest returns the candidate name most similar to word, if any is similar enough.
func closest(word string, candidates []named) (string, bool) {
	var (
		best  string
		score float64
	)
	for _, c := range candidates {
		if r := similarity(word, c.name); r > score {
			best, score = c.name, r
		}
	}
	return best, score >= suggestionCutoff
}

// resolve finds the id of the candidate whose id or name (case insensitive) is value.
func resolve(field, value string, candidates []named) (string, error) {
	value = core.CleanString(value)
	if value == "" {
		return "", nil
	}
	for _, c := range candidates {
		if c.id == value {
			return c.id, nil
		}
	}
	var found []string
	for _, c := range candidates {
		if strings.EqualFold(c.name, value) {
			found = append(found, c.id)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		msg := fmt.Sprintf("unknown %s %q", field, value)
		if suggestion, ok := closest(value, candidates); ok {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		return "", core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
	default:
		msg := fmt.Sprintf("%q matches %d %ss, use an id: %s", value, len(found), field, strings.Join(found, ", "))
		return "", core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
	}
}

func classCandidates(snap assessment.Snapshot) []named {
	res := make([]named, 0, len(snap.Classes))
	for _, c := range snap.Classes {
		res = append(res, named{c.ID, c.Name})
	}
	return res
}

func subjectCandidates(snap assessment.Snapshot) []named {
	res := make([]named, 0, len(snap.Subjects))
	for _, s := range snap.Subjects {
		res = append(res, named{s.ID, s.Name})
	}
	return res
}

func assessmentCandidates(catalog []assessment.Assessment) []named {
	res := make([]named, 0, len(catalog))
	for _, a := range catalog {
		res = append(res, named{a.Ref, a.Name})
	}
	return res
}

func (cli *commandLine) loadSnapshot(ctx context.Context) (assessment.Snapshot, error) {
	if _, err := cli.svc.Refresh(ctx); err != nil {
		return assessment.Snapshot{}, errors.Wrap(err, "loading report data")
	}
	return cli.svc.Snapshot()
}

func (cli *commandLine) report(ctx context.Context, args reportArgs) error {
	kind, err := assessment.ParseReportKind(core.CleanString(args.kind, true))
	if err != nil {
		kinds := make([]string, 0, len(assessment.ReportKinds))
		for _, k := range assessment.ReportKinds {
			kinds = append(kinds, string(k))
		}
		return core.NewValidationError(err, core.FieldError{
			Field: "kind",
			Error: fmt.Sprintf("kind must be one of [%s]", strings.Join(kinds, ", ")),
		})
	}

	snap, err := cli.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	var filter assessment.Filter
	if filter.ClassID, err = resolve("class", args.class, classCandidates(snap)); err != nil {
		return err
	}
	if filter.SubjectID, err = resolve("subject", args.subject, subjectCandidates(snap)); err != nil {
		return err
	}
	if args.assessment != "" {
		if _, _, perr := assessment.ParseRef(args.assessment); perr == nil {
			filter.AssessmentRef = core.CleanString(args.assessment)
		} else {
			catalog := assessment.Catalog(snap, filter.ClassID)
			if filter.AssessmentRef, err = resolve("assessment", args.assessment, assessmentCandidates(catalog)); err != nil {
				return err
			}
		}
	}

	rep, err := assessment.Select(snap, kind, filter)
	if err != nil {
		return errors.Wrap(err, "computing report")
	}

	enc := json.NewEncoder(cli.out)
	if stdoutIsTerminal() {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep)
}
