package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
)

// seed creates every course of the file. Existing ids are skipped, or fully replaced when replace is set.
func (cli *commandLine) seed(ctx context.Context, path string, replace bool) error {
	if cli.store == nil {
		return errNoStore
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	courses, err := course.UnmarshalCollection(data)
	if err != nil {
		return errors.Wrap(err, "decoding seed file")
	}

	var created, updated, skipped int
	for _, c := range courses {
		_, err := cli.store.Create(ctx, c)
		switch {
		case err == nil:
			created++
		case errors.Cause(err) == course.ErrDuplicateID:
			if !replace {
				skipped++
				continue
			}
			if _, err = cli.store.Update(ctx, c); err != nil {
				return errors.Wrapf(err, "replacing course %q", c.ID)
			}
			updated++
		default:
			return errors.Wrapf(err, "creating course %q", c.Title)
		}
	}
	fmt.Fprintf(cli.out, "%d created, %d replaced, %d skipped\n", created, updated, skipped)
	return nil
}

func (cli *commandLine) listCourses() error {
	if cli.store == nil {
		return errNoStore
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tINSTRUCTOR\tENROLLED")
	for _, c := range cli.store.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", c.ID, c.Title, c.Category, c.Instructor, c.EnrolledCount)
	}
	return w.Flush()
}
