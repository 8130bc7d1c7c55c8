package main

import (
	"fmt"

	"Mansoor88-6/time-tracking-backend/internal/database"
	"Mansoor88-6/time-tracking-backend/internal/service"

	"github.com/spf13/cobra"
)

var (
	progressUser  string
	progressYear  int
	progressMonth int
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print a user's progress against a monthly target",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := database.New(cfg.StoragePath, log.Logger)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := service.NewMonthlyTargetService(db, database.NewUnitOfWork(db.DB), log.Logger)
		p, err := svc.GetProgress(cmd.Context(), progressUser, progressYear, progressMonth)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Target:    %.2f h (%d/%d)\n", p.Target.TargetHours, p.Target.Month, p.Target.Year)
		fmt.Fprintf(out, "Window:    %s to %s (exclusive)\n", p.WindowStart, p.WindowEnd)
		fmt.Fprintf(out, "Worked:    %.2f h\n", p.CurrentHours)
		fmt.Fprintf(out, "Remaining: %.2f h\n", p.RemainingHours)
		fmt.Fprintf(out, "Progress:  %.1f%%\n", p.ProgressPercentage)
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressUser, "user", "", "User id")
	progressCmd.Flags().IntVar(&progressYear, "year", 0, "Target year")
	progressCmd.Flags().IntVar(&progressMonth, "month", 0, "Target month (1-12)")
	_ = progressCmd.MarkFlagRequired("user")
	_ = progressCmd.MarkFlagRequired("year")
	_ = progressCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(progressCmd)
}
