package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/darasa/core/course"
)

var (
	errHelp       = errors.New("help provided")
	errNoStore    = errors.New("course storage is not configured")
	errNoDatabase = errors.New("migrations need the postgres storage engine")
)

type commandLine struct {
	store *course.Store
	db    *sql.DB // postgres only
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  seed -file FILE [-replace] - load courses from a JSON array; -replace overwrites existing ids")
	fmt.Fprintln(cli.out, "  courses - list stored courses")
	fmt.Fprintln(cli.out, "  export -file FILE.xlsx - write courses and submissions to a spreadsheet")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command against the postgres database")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	seedFile := seedCmd.String("file", "", "JSON file holding an array of courses.")
	seedReplace := seedCmd.Bool("replace", false, "Replace courses whose id already exists instead of skipping them.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportFile := exportCmd.String("file", "", "Path of the xlsx workbook to write.")

	switch args[1] {
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if *seedFile == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(ctx, *seedFile, *seedReplace)
	case "courses":
		return cli.listCourses()
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if *exportFile == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportFile)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
