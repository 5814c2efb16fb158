package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linnemanlabs/caduceus/internal/directory"
	"github.com/linnemanlabs/caduceus/internal/knowledge"
)

func newAskCmd(a *app) *cobra.Command {
	var (
		kbPath   string
		dirPath  string
		channel  string
		messages []string
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the clinical knowledge assistant",
		Example: `  caduceus ask "what is the sepsis protocol"
  caduceus ask "warfarin drug interactions"
  caduceus ask "summarize" --channel icu -m "bed 4 febrile" -m "bed 7 discharged"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := knowledge.DefaultCatalog()
			if kbPath != "" {
				var err error
				if catalog, err = knowledge.LoadCatalog(kbPath); err != nil {
					return err
				}
			}
			seed := directory.DefaultSeed()
			if dirPath != "" {
				var err error
				if seed, err = directory.LoadSeed(dirPath); err != nil {
					return err
				}
			}

			q := buildQuery(cmd.Context(), strings.Join(args, " "), directory.NewStore(seed), channel, messages)
			ans := knowledge.NewResponder(catalog, processRand{}, knowledge.NoPacer{}, nil).Answer(cmd.Context(), q)

			if a.format == "json" {
				return a.writeJSON(cmd.OutOrStdout(), ans)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ans.Content)
			fmt.Fprintf(out, "\n[%s, %d%% confidence", ans.Type, ans.ConfidencePercent)
			if len(ans.Sources) > 0 {
				fmt.Fprintf(out, ", source: %s", strings.Join(ans.Sources, ", "))
			}
			fmt.Fprintln(out, "]")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&kbPath, "kb", "", "YAML knowledge base overlay")
	f.StringVar(&dirPath, "directory", "", "YAML staff and department directory")
	f.StringVar(&channel, "channel", "", "Channel name for conversation context")
	f.StringArrayVarP(&messages, "message", "m", nil, "Recent conversation message (repeatable)")

	return cmd
}

func buildQuery(ctx context.Context, text string, dir *directory.Store, channel string, messages []string) knowledge.Query {
	snap := dir.Snapshot(ctx)
	q := knowledge.Query{
		Text:        text,
		Staff:       snap.Staff,
		Departments: snap.Departments,
	}
	if len(messages) > 0 || channel != "" {
		q.Conversation = &knowledge.Conversation{
			ChannelName:    channel,
			RecentMessages: messages,
		}
	}
	return q
}
