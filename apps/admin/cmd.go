package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/masomo-reports/core"
	"github.com/trezcool/masomo-reports/core/assessment"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	svc     assessment.ServiceInterface
	mailSvc core.EmailService
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                      - run a goose command (up, down, status, ...) against the database")
	_, _ = fmt.Fprintln(cli.out, "  report -kind KIND [-class C] [-subject S] [-assessment A]")
	_, _ = fmt.Fprintln(cli.out, "                                              - print a report as JSON; class & subject accept an id or a name")
	_, _ = fmt.Fprintln(cli.out, "  notify -to EMAIL[,EMAIL]                    - e-mail the students needing attention")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := cli.newFlagSet("report")
	reportKind := reportCmd.String("kind", "", "The report: test-results, class-summary, subject-summary or top-performers.")
	reportClass := reportCmd.String("class", "", "Only this class (id or name).")
	reportSubject := reportCmd.String("subject", "", "Only this subject (id or name).")
	reportAssessment := reportCmd.String("assessment", "", "The assessment of test-results: test:<id>, exam:<id> or its name.")

	notifyCmd := cli.newFlagSet("notify")
	notifyTo := notifyCmd.String("to", "", "Comma separated recipients.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "report":
		if err := parseFlags(reportCmd, args[2:]); err != nil {
			return err
		}
		if *reportKind == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(context.Background(), reportArgs{
			kind:       *reportKind,
			class:      *reportClass,
			subject:    *reportSubject,
			assessment: *reportAssessment,
		})
	case "notify":
		if err := parseFlags(notifyCmd, args[2:]); err != nil {
			return err
		}
		if *notifyTo == "" {
			notifyCmd.Usage()
			return errHelp
		}
		return cli.notify(context.Background(), *notifyTo)
	default:
		cli.printUsage()
		return errHelp
	}
}

// stdoutIsTerminal tells whether JSON output should be indented.
func stdoutIsTerminal() bool {
	return isTerminalFunc(int(os.Stdout.Fd()))
}
