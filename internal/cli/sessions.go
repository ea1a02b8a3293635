package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maumlog/maum/backend/internal/analysis/filter"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List a user's stored sessions",
		Run:   runSessions,
	}

	cmd.Flags().StringP("emotions", "e", "", "Filter by emotions (comma-separated)")
	cmd.Flags().String("from", "", "Earliest date, 2006-01-02 form")
	cmd.Flags().String("to", "", "Latest date, 2006-01-02 form")
	cmd.Flags().Bool("full", false, "Include message bodies")

	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	user := requireUser()
	criteria := criteriaFromFlags(cmd)
	full, _ := cmd.Flags().GetBool("full")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	record, err := s.Load(cmd.Context(), user)
	if err != nil {
		exitErr("load journal", err)
	}

	sessions := filter.Apply(record.ChatSessions, criteria)
	filter.SortByDateDesc(sessions)

	if full {
		b, _ := json.MarshalIndent(sessions, "", "  ")
		fmt.Println(string(b))
		return
	}

	for _, session := range sessions {
		emotion := session.Emotion
		if emotion == "" {
			emotion = "-"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", session.ID, session.Date.Format("2006-01-02 15:04"), emotion, session.Preview)
	}
}

func criteriaFromFlags(cmd *cobra.Command) filter.Criteria {
	values := url.Values{}
	if emotions, _ := cmd.Flags().GetString("emotions"); strings.TrimSpace(emotions) != "" {
		values.Set("emotions", emotions)
	}
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		values.Set("from", from)
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		values.Set("to", to)
	}

	criteria, err := filter.ParseQuery(values)
	if err != nil {
		exitErr("parse filters", err)
	}
	return criteria
}
