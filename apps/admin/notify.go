package main

import (
	"context"
	"fmt"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
)

var needsAttentionTmpl = texttmpl.Must(texttmpl.New("needs_attention").Parse(
	`{{len .Students}} student(s) averaged below {{.Below}}% across their tests and exams:
{{range .Students}}
- {{.StudentName}} ({{if .RollNumber}}roll {{.RollNumber}}{{else}}no roll number{{end}}): {{printf "%.2f" .AveragePercentage}}% over {{.AssessmentCount}} assessment(s), {{.PassCount}} passed
{{- end}}

School average: {{printf "%.1f" .Average}}% over {{.Total}} student(s).
`))

type needsAttentionData struct {
	Students []assessment.StudentPerformance
	Below    float64
	Average  float64
	Total    int
}

func (cli *commandLine) notify(ctx context.Context, to string) error {
	recipients, err := core.ParseAddressList(to)
	if err != nil {
		return err
	}

	snap, err := cli.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	ranking := assessment.Rank(snap)
	if len(ranking.NeedsAttention) == 0 {
		_, _ = fmt.Fprintln(cli.out, "no student needs attention")
		return nil
	}

	msg := &core.EmailMessage{
		To:       recipients,
		Subject:  fmt.Sprintf("%d student(s) need attention", len(ranking.NeedsAttention)),
		Template: needsAttentionTmpl,
		TemplateData: needsAttentionData{
			Students: ranking.NeedsAttention,
			Below:    assessment.NeedsAttentionBelow,
			Average:  ranking.Stats.AverageScore,
			Total:    ranking.Stats.TotalStudents,
		},
	}
	if err = cli.mailSvc.SendMessages(msg); err != nil {
		return errors.Wrap(err, "sending notification")
	}
	_, _ = fmt.Fprintf(cli.out, "notified %d recipient(s) about %d student(s)\n", len(recipients), len(ranking.NeedsAttention))
	return nil
}
