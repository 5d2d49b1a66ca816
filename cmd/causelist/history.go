package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/causelist/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lookups",
		Long: `History lists the most recent lookups recorded by "search --history" or
by the API server when history is enabled, newest first.

Examples:
  causelist history
  causelist history -n 50 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", database.DefaultRecentLimit, "Number of lookups to show")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// historyEntry is the JSON form of a lookup record.
type historyEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Date       string    `json:"date"`
	Side       string    `json:"side"`
	Advocate   string    `json:"advocate"`
	CourtURL   string    `json:"court_url"`
	Status     string    `json:"status"`
	MatchCount int       `json:"match_count"`
	DurationMS int64     `json:"duration_ms"`
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		if asJSON {
			_, err := fmt.Fprintln(out, "[]")
			return err
		}
		_, err := fmt.Fprintln(out, "No lookups recorded yet.")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	records, err := db.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if asJSON {
		entries := make([]historyEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, historyEntry{
				ID:         r.ID,
				Timestamp:  r.Timestamp,
				Date:       r.Date,
				Side:       r.Side,
				Advocate:   r.Advocate,
				CourtURL:   r.CourtURL,
				Status:     r.Status,
				MatchCount: r.MatchCount,
				DurationMS: r.Duration.Milliseconds(),
			})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No lookups recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tDATE\tSIDE\tADVOCATE\tSTATUS\tMATCHES\tDURATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Date,
			r.Side,
			r.Advocate,
			r.Status,
			r.MatchCount,
			r.Duration.Round(time.Millisecond),
		)
	}
	return tw.Flush()
}
