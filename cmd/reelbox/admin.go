package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/config"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show server and catalog status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMaintenance(cmd, "Reindexed", NewClient(serverURL).Reindex)
		},
	}

	flushCmd := &cobra.Command{
		Use:   "flush",
		Short: "Save the catalog and the search index to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMaintenance(cmd, "Flushed", NewClient(serverURL).Flush)
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent catalog events",
		Args:  cobra.NoArgs,
		RunE:  runEvents,
	}
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 24h)")
	eventsCmd.Flags().String("type", "", "Only show events of this type (e.g. movie.added)")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default server configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	rootCmd.AddCommand(statusCmd, reindexCmd, flushCmd, eventsCmd, initCmd)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	status, err := NewClient(serverURL).Status()
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	if jsonOutput {
		printJSON(status)
		return nil
	}
	printStatus(cmd.OutOrStdout(), serverURL, status)
	return nil
}

func printStatus(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "Server:     %s (%s)\n", server, s.Status)
	fmt.Fprintf(w, "Version:    %s\n", s.Version)
	fmt.Fprintf(w, "Catalog:    %s\n", s.CatalogPath)
	fmt.Fprintf(w, "Movies:     %d\n", s.Movies)
	fmt.Fprintf(w, "Caching:    %s\n", s.Strategy)
	fmt.Fprintf(w, "Index:      %d documents, %d terms\n", s.IndexDocuments, s.IndexTerms)
}

func runMaintenance(cmd *cobra.Command, verb string, call func() (*StatusResponse, error)) error {
	status, err := call()
	if err != nil {
		return fmt.Errorf("%s failed: %w", verb, err)
	}
	if jsonOutput {
		printJSON(status)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d movies\n", verb, status.Movies)
	return nil
}

func runEvents(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	window, _ := cmd.Flags().GetDuration("since")
	eventType, _ := cmd.Flags().GetString("type")

	var since time.Time
	if window > 0 {
		since = time.Now().Add(-window)
	}

	events, err := NewClient(serverURL).Events(limit, since, eventType)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	printEvents(cmd.OutOrStdout(), events.Items)
	return nil
}

func printEvents(w io.Writer, items []EventResponse) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	rows := make([][]string, len(items))
	for i, e := range items {
		rows[i] = []string{formatTimeAgo(time.Since(e.OccurredAt)), e.EventType, truncate(e.EntityID, 48)}
	}
	fmt.Fprintln(w, renderTable([]string{"When", "Type", "Entity"}, rows, nil))
}

func formatTimeAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
