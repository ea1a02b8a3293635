package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maumlog/maum/backend/internal/analysis/filter"
	"github.com/maumlog/maum/backend/internal/analysis/report"
	"github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/model/emotion"
)

func init() {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Run the emotion reports offline",
	}

	distributionCmd := &cobra.Command{
		Use:   "distribution",
		Short: "Emotion counts and percentages",
		Run: runReport(func(sessions []chat.Session) any {
			return report.Distribute(sessions)
		}),
	}

	histogramCmd := &cobra.Command{
		Use:   "histogram",
		Short: "Sessions per emotion bucketed by week or month",
	}
	histogramCmd.Flags().String("period", "week", "Bucket size: week or month")
	histogramCmd.Run = func(cmd *cobra.Command, args []string) {
		period := report.PeriodWeek
		switch raw, _ := cmd.Flags().GetString("period"); raw {
		case "", "week":
		case "month":
			period = report.PeriodMonth
		default:
			exitErr("parse flags", fmt.Errorf("period must be week or month, got %q", raw))
		}
		runReport(func(sessions []chat.Session) any {
			return report.Histogram(sessions, period)
		})(cmd, args)
	}

	bandsCmd := &cobra.Command{
		Use:   "bands",
		Short: "Emotion counts by time of day",
		Run: runReport(func(sessions []chat.Session) any {
			return report.BandCrosstab(sessions)
		}),
	}

	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "Top emotion, per-band leaders and diversity",
		Run: runReport(func(sessions []chat.Session) any {
			return report.Summarize(sessions, 5, emotion.NewCatalog(emotion.Seed()).Size())
		}),
	}

	for _, cmd := range []*cobra.Command{distributionCmd, histogramCmd, bandsCmd, insightsCmd} {
		cmd.Flags().StringP("emotions", "e", "", "Filter by emotions (comma-separated)")
		cmd.Flags().String("from", "", "Earliest date, 2006-01-02 form")
		cmd.Flags().String("to", "", "Latest date, 2006-01-02 form")
		reportCmd.AddCommand(cmd)
	}

	RootCmd.AddCommand(reportCmd)
}

func runReport(build func([]chat.Session) any) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		user := requireUser()
		criteria := criteriaFromFlags(cmd)

		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		record, err := s.Load(cmd.Context(), user)
		if err != nil {
			exitErr("load journal", err)
		}

		b, _ := json.MarshalIndent(build(filter.Apply(record.ChatSessions, criteria)), "", "  ")
		fmt.Println(string(b))
	}
}
