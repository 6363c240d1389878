package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/mizan/internal/adapters/csvio"
	"github.com/okian/mizan/internal/domain/model"
)

var newActivity csvio.NewActivity

var addActivityCmd = &cobra.Command{
	Use:   "add-activity",
	Short: "Append a participation record to a year's participations.csv",
	Example: `  mizan add-activity --year 2025 --category conference --type paper \
    --title "Graph mining" --participants M1,M7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, _, err := startService(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		if newActivity.Year == model.YearAll {
			return fmt.Errorf("%w: --year is required", csvio.ErrInvalidRecord)
		}
		p, err := svc.AddActivity(ctx, newActivity)
		if err != nil {
			return err
		}
		_, _ = headerColor.Fprintf(cmd.OutOrStdout(), "added %s\n", p.ID)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s  %s\n",
			p.Year, p.Category, p.Title, strings.Join(p.ParticipantIDs, model.IDSeparator))
		return nil
	},
}

func init() {
	f := addActivityCmd.Flags()
	f.IntVar(&newActivity.Year, "year", 0, "activity year")
	f.StringVar(&newActivity.Category, "category", "", "conference|seminar|workshop|external discussion|peer review|award|patent|student research|publication")
	f.StringVar(&newActivity.ParticipationType, "type", "", "paper|participation|organization|attendance")
	f.StringVar(&newActivity.Title, "title", "", "activity title")
	f.StringVar(&newActivity.Location, "location", "", "location")
	f.StringVar(&newActivity.Date, "date", "", "date, e.g. 2025-03-01")
	f.StringSliceVar(&newActivity.ParticipantIDs, "participants", nil, "comma-separated member ids")
	f.StringVar(&newActivity.GrantingBody, "granting-body", "", "granting body (awards, patents)")
	f.StringVar(&newActivity.Journal, "journal", "", "journal (publications)")
	f.StringVar(&newActivity.CitationsRange, "citations", "", "citations range label")
	f.BoolVar(&newActivity.StudentAuthor, "student-author", false, "a student co-authored it")

	_ = addActivityCmd.MarkFlagRequired("year")
	_ = addActivityCmd.MarkFlagRequired("category")
	_ = addActivityCmd.MarkFlagRequired("title")
	_ = addActivityCmd.MarkFlagRequired("participants")
}
