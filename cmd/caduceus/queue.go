package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newQueueCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List waiting patients, most urgent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, done, err := a.openService()
			if err != nil {
				return err
			}
			defer done()

			records, err := svc.Queue(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.format == "json" {
				return a.writeJSON(cmd.OutOrStdout(), records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No patients waiting.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tLEVEL\tDEPARTMENT\tWAITING\tNAME")
			now := time.Now()
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
					r.ID, r.Assessment.PriorityScore, r.Assessment.PriorityLevel,
					r.Assessment.RecommendedDepartment, now.Sub(r.CreatedAt).Round(time.Minute), r.PatientName)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum patients to list (0 = all)")

	return cmd
}

func newSeenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seen <record-id>",
		Short: "Mark a waiting patient as seen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := a.openService()
			if err != nil {
				return err
			}
			defer done()

			rec, ok, err := svc.MarkSeen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("record %s not found", args[0])
			}
			if a.format == "json" {
				return a.writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %s marked seen at %s\n", rec.ID, rec.SeenAt.Format(time.RFC3339))
			return nil
		},
	}
}
