package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yoockh/skillproctor/internal/models"
	mongorepo "github.com/yoockh/skillproctor/internal/repositories/mongo"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/stage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the relational schema and seed the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := connect(needs{})
		if err != nil {
			return err
		}
		defer in.close()

		if err := pgrepo.Migrate(in.db); err != nil {
			return err
		}
		in.log.Info("schema migrated")

		username, password := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")
		if username == "" || password == "" {
			in.log.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set; no admin account seeded")
			return nil
		}

		svc := services.NewAuthService(pgrepo.NewAdminRepo(in.db), pgrepo.NewCandidateRepo(in.db), nil, in.log)
		created, err := svc.EnsureDefaultAdmin(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if created {
			in.log.WithField("username", username).Info("admin account created")
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every candidate, session, report and proctoring event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to reset without --yes")
		}

		in, err := connect(needs{mongo: true})
		if err != nil {
			return err
		}
		defer in.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if err := pgrepo.NewMaintenanceRepo(in.db).Reset(ctx); err != nil {
			return err
		}
		if err := mongorepo.NewProctoringRepo(in.mongo).DeleteAll(ctx); err != nil {
			return err
		}
		color.Green("All assessment data deleted. Admin accounts were kept.")
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print candidate counts per pipeline status and report outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := connect(needs{})
		if err != nil {
			return err
		}
		defer in.close()

		ctx := cmd.Context()
		byStatus, err := pgrepo.NewCandidateRepo(in.db).CountByStatus(ctx)
		if err != nil {
			return err
		}
		byOverall, err := pgrepo.NewReportRepo(in.db).CountByOverall(ctx)
		if err != nil {
			return err
		}

		color.Cyan("\n=== Candidates by status ===")
		var total int64
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Status", "Candidates"})
		for _, s := range stage.Statuses() {
			n := byStatus[s]
			total += n
			table.Append([]string{string(s), strconv.FormatInt(n, 10)})
		}
		table.SetFooter([]string{"Total", strconv.FormatInt(total, 10)})
		table.Render()

		color.Cyan("\n=== Reports ===")
		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Outcome", "Reports"})
		for _, o := range []models.OverallStatus{models.OverallPassed, models.OverallFailed, models.OverallPartial} {
			table.Append([]string{string(o), strconv.FormatInt(byOverall[o], 10)})
		}
		table.Render()

		if passed := byOverall[models.OverallPassed]; passed > 0 {
			color.Green("%d candidate(s) passed the full pipeline", passed)
		} else {
			fmt.Println("No candidate has passed the full pipeline yet.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
