package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	coursesSheet     = "Courses"
	submissionsSheet = "Submissions"
)

var (
	courseHeader     = []interface{}{"ID", "Title", "Category", "Instructor", "Enrolled", "Modules", "Assignments"}
	submissionHeader = []interface{}{"Course", "Assignment", "Student", "Status", "Grade", "Plagiarism score", "Submitted at"}
)

// export writes the courses and their submissions to an xlsx workbook at path.
func (cli *commandLine) export(path string) error {
	if cli.store == nil {
		return errNoStore
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", coursesSheet); err != nil {
		return errors.Wrap(err, "naming courses sheet")
	}
	if _, err := f.NewSheet(submissionsSheet); err != nil {
		return errors.Wrap(err, "creating submissions sheet")
	}

	courses := cli.store.List()
	var courseRows, submissionRows [][]interface{}
	for _, c := range courses {
		courseRows = append(courseRows, []interface{}{
			c.ID, c.Title, c.Category, c.Instructor, c.EnrolledCount, len(c.Modules), len(c.Assignments),
		})
		for _, s := range c.Submissions {
			var grade, score interface{}
			if s.Grade.Valid {
				grade = s.Grade.Float64
			}
			if s.PlagiarismScore.Valid {
				score = s.PlagiarismScore.Float64
			}
			submissionRows = append(submissionRows, []interface{}{
				c.ID, s.AssignmentID, s.StudentName, string(s.Status), grade, score, s.SubmittedAt,
			})
		}
	}

	if err := writeSheet(f, coursesSheet, courseHeader, courseRows); err != nil {
		return err
	}
	if err := writeSheet(f, submissionsSheet, submissionHeader, submissionRows); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "saving workbook")
	}

	fmt.Fprintf(cli.out, "exported %d courses, %d submissions\n", len(courseRows), len(submissionRows))
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	for i, row := range append([][]interface{}{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}
