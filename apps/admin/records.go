package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

func (cli *commandLine) parentCmd() *cobra.Command {
	var np parent.NewParent
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.validate.Struct(np); err != nil {
				return err
			}
			p, err := cli.parentSvc.Create(context.Background(), np)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "parent %d created\n", p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&np.Name, "name", "", "full name (required)")
	add.Flags().StringVar(&np.Email, "email", "", "email address, absence alerts are sent to it")
	add.Flags().StringVar(&np.Phone, "phone", "", "phone number")
	return groupCmd("parent", "Manage parents", add)
}

func (cli *commandLine) studentCmd() *cobra.Command {
	var ns student.NewStudent
	add := &cobra.Command{
		Use:   "add",
		Short: "Enroll a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ns.Validate(cli.validate); err != nil {
				return err
			}
			stu, err := cli.studentSvc.Create(context.Background(), ns)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "student %d (%s) enrolled\n", stu.ID, stu.StudentID)
			return nil
		},
	}
	flags := add.Flags()
	flags.Int64Var(&ns.ParentID, "parent", 0, "parent ID (required)")
	flags.StringVar(&ns.StudentID, "student-id", "", "school-issued student ID (required)")
	flags.StringVar(&ns.FirstName, "first-name", "", "first name (required)")
	flags.StringVar(&ns.LastName, "last-name", "", "last name (required)")
	flags.StringVar(&ns.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	flags.StringVar(&ns.Gender, "gender", "", "M, F or O")
	flags.StringVar(&ns.Email, "email", "", "email address")
	flags.StringVar(&ns.ClassName, "class", "", "class name")
	flags.StringVar(&ns.Section, "section", "", "section")
	flags.StringVar(&ns.RollNumber, "roll-number", "", "roll number")
	flags.StringVar(&ns.AdmissionDate, "admission-date", "", "admission date (YYYY-MM-DD)")
	flags.StringVar(&ns.Status, "status", "", "active (default), inactive or graduated")
	return groupCmd("student", "Manage students", add)
}

func (cli *commandLine) subjectCmd() *cobra.Command {
	var name, code, description string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create or rename a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			if core.CleanString(code) == "" || core.CleanString(name) == "" {
				_ = cmd.Help()
				return errHelp
			}
			sub, err := cli.studentSvc.AddSubject(context.Background(), name, code, description)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "subject %s saved\n", sub.Code)
			return nil
		},
	}
	add.Flags().StringVar(&code, "code", "", "unique subject code (required)")
	add.Flags().StringVar(&name, "name", "", "subject name (required)")
	add.Flags().StringVar(&description, "description", "", "description")
	return groupCmd("subject", "Manage subjects", add)
}

func (cli *commandLine) gradeCmd() *cobra.Command {
	var ng student.NewGrade
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an exam result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ng.Grade == "" && ng.TotalMarks > 0 {
				ng.Grade = student.LetterGrade(core.Percentage(ng.MarksObtained, ng.TotalMarks))
			}
			if err := ng.Validate(cli.validate); err != nil {
				return err
			}
			g, err := cli.studentSvc.AddGrade(context.Background(), ng)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "grade %s (%.2f%%) recorded\n", g.Grade, g.Percentage)
			return nil
		},
	}
	flags := add.Flags()
	flags.Int64Var(&ng.StudentID, "student", 0, "student ID (required)")
	flags.StringVar(&ng.SubjectCode, "subject", "", "subject code (required)")
	flags.Float64Var(&ng.MarksObtained, "marks", 0, "marks obtained")
	flags.Float64Var(&ng.TotalMarks, "total", 100, "total marks")
	flags.StringVar(&ng.Grade, "grade", "", "letter grade (derived from the marks if empty)")
	flags.StringVar(&ng.ExamName, "exam", "", "exam name (required)")
	flags.StringVar(&ng.ExamDate, "date", "", "exam date (YYYY-MM-DD), today if empty")
	return groupCmd("grade", "Manage grades", add)
}

func (cli *commandLine) attendanceCmd() *cobra.Command {
	var nr attendance.NewRecord
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a student's attendance for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := nr.Validate(cli.validate); err != nil {
				return err
			}
			rec, err := cli.attendanceSvc.Record(context.Background(), nr)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "student %d: %s on %s\n", rec.StudentID, rec.Status, rec.Date.Format(core.DateLayout))
			return nil
		},
	}
	flags := record.Flags()
	flags.Int64Var(&nr.StudentID, "student", 0, "student ID (required)")
	flags.StringVar(&nr.Date, "date", "", "day (YYYY-MM-DD) (required)")
	flags.StringVar(&nr.Status, "status", "", "present, absent or late (required)")
	flags.StringVar(&nr.Remarks, "remarks", "", "remarks")
	return groupCmd("attendance", "Manage attendance", record)
}
