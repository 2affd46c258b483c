package main

import (
	"fmt"

	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/estlcam"
	"github.com/spf13/cobra"
)

func newResolver(opts *rootOptions) *estlcam.PathResolver {
	cfg := opts.loadConfig()
	return estlcam.NewPathResolver(estlcam.ProvideStateCache(&cfg.Host, clock.Real()))
}

func newStateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the default project folder and recent files from the Estlcam state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := newResolver(opts).State()
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, state)
			}

			if state.SourcePath == "" {
				fmt.Fprintln(out, "No Estlcam state file found")
				return nil
			}
			fmt.Fprintf(out, "State file:      %s\n", state.SourcePath)
			fmt.Fprintf(out, "Default folder:  %s\n", state.DefaultProjectDir)
			fmt.Fprintf(out, "Recent files:    %d\n", len(state.RecentFiles))
			for i, f := range state.RecentFiles {
				fmt.Fprintf(out, "  %2d. %s\n", i+1, f)
			}
			return nil
		},
	}
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Resolve a window caption file name to a full path and show every strategy tried",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := newResolver(opts).Explain(args[0])
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, res)
			}

			for _, step := range res.Steps {
				fmt.Fprintf(out, "%-14s %-10s", step.Strategy, step.Outcome)
				if step.Chosen != "" {
					fmt.Fprintf(out, " %s", step.Chosen)
				}
				if step.Note != "" {
					fmt.Fprintf(out, " (%s)", step.Note)
				}
				fmt.Fprintln(out)
				for _, c := range step.Candidates {
					fmt.Fprintf(out, "               candidate %s\n", c)
				}
			}
			if !res.Found {
				return fmt.Errorf("could not resolve %q", args[0])
			}
			fmt.Fprintf(out, "Resolved: %s\n", res.Path)
			return nil
		},
	}
}
