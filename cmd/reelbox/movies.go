package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	moviesCmd := &cobra.Command{
		Use:     "movies",
		Aliases: []string{"movie", "m"},
		Short:   "Browse and edit the catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE:  runMoviesList,
	}
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of movies to return")
	listCmd.Flags().Int("offset", 0, "Skip this many movies")
	listCmd.Flags().StringP("sort", "s", "", "Sort by title, year, category, director or duration")
	listCmd.Flags().Bool("desc", false, "Sort in descending order")
	listCmd.Flags().String("title", "", "Fuzzy title filter")
	listCmd.Flags().String("category", "", "Filter by category")
	listCmd.Flags().String("director", "", "Filter by director")
	listCmd.Flags().Int("year", 0, "Filter by release year")
	listCmd.Flags().Int("year-delta", 0, "Accept years within this distance of --year")

	showCmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show one movie with its synopsis",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesShow,
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a movie to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesAdd,
	}
	addCmd.Flags().Int("year", 0, "Release year")
	addCmd.Flags().String("category", "", "Category")
	addCmd.Flags().String("director", "", "Director")
	addCmd.Flags().String("producer", "", "Producer")
	addCmd.Flags().String("actors", "", "Comma separated actors")
	addCmd.Flags().Int("duration", 0, "Duration in minutes")
	addCmd.Flags().String("synopsis", "", "Synopsis text")
	addCmd.Flags().String("video", "", "Video file path")
	addCmd.Flags().String("cover", "", "Poster image to derive covers from (path on the server)")

	editCmd := &cobra.Command{
		Use:   "edit <title>",
		Short: "Change metadata of a movie",
		Long:  "Only the flags given are changed. The title cannot be changed.",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesEdit,
	}
	editCmd.Flags().Int("year", 0, "Release year")
	editCmd.Flags().String("category", "", "Category")
	editCmd.Flags().String("director", "", "Director")
	editCmd.Flags().String("producer", "", "Producer")
	editCmd.Flags().String("actors", "", "Comma separated actors")
	editCmd.Flags().Int("duration", 0, "Duration in minutes")
	editCmd.Flags().String("video", "", "Video file path")
	editCmd.Flags().String("cover", "", "Poster image to derive covers from (path on the server)")

	removeCmd := &cobra.Command{
		Use:     "remove <title>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE:    runMoviesRemove,
	}

	synopsisCmd := &cobra.Command{
		Use:   "synopsis <title> [text]",
		Short: "Print or replace the synopsis of a movie",
		Long:  "With a text argument the synopsis is replaced; '-' reads it from stdin.",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runMoviesSynopsis,
	}

	historyCmd := &cobra.Command{
		Use:   "history <title>",
		Short: "Show the journaled changes of a movie",
		Args:  cobra.ExactArgs(1),
		RunE:  runMoviesHistory,
	}

	moviesCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, removeCmd, synopsisCmd, historyCmd)
	rootCmd.AddCommand(moviesCmd)
}

func runMoviesList(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	var opts ListOptions
	opts.Limit, _ = f.GetInt("limit")
	opts.Offset, _ = f.GetInt("offset")
	opts.Sort, _ = f.GetString("sort")
	opts.Desc, _ = f.GetBool("desc")
	opts.Title, _ = f.GetString("title")
	opts.Category, _ = f.GetString("category")
	opts.Director, _ = f.GetString("director")
	opts.Year, _ = f.GetInt("year")
	opts.YearDelta, _ = f.GetInt("year-delta")

	resp, err := NewClient(serverURL).Movies(opts)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printMoviesTable(cmd.OutOrStdout(), resp)
	return nil
}

func printMoviesTable(w io.Writer, resp *ListMoviesResponse) {
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "No movies")
		return
	}
	rows := make([][]string, len(resp.Items))
	for i, m := range resp.Items {
		rows[i] = []string{
			truncate(m.Title, 40),
			yearString(m.Year),
			truncate(m.Category, 20),
			truncate(m.Director, 24),
			m.DurationText,
		}
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Title", "Year", "Category", "Director", "Duration"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight},
	))
	fmt.Fprintf(w, "Showing %d-%d of %d\n", resp.Offset+1, resp.Offset+len(resp.Items), resp.Total)
}

func yearString(y int) string {
	if y == 0 {
		return "-"
	}
	return strconv.Itoa(y)
}

func runMoviesShow(cmd *cobra.Command, args []string) error {
	m, err := NewClient(serverURL).Movie(args[0])
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("no movie titled %q", args[0])
		}
		return fmt.Errorf("failed to get movie: %w", err)
	}

	if jsonOutput {
		printJSON(m)
		return nil
	}
	printMovie(cmd.OutOrStdout(), m)
	return nil
}

func printMovie(w io.Writer, m *MovieResponse) {
	fmt.Fprintf(w, "%s (%s)\n", m.Title, yearString(m.Year))
	fmt.Fprintf(w, "  Category:  %s\n", m.Category)
	fmt.Fprintf(w, "  Director:  %s\n", m.Director)
	fmt.Fprintf(w, "  Producer:  %s\n", m.Producer)
	fmt.Fprintf(w, "  Actors:    %s\n", m.Actors)
	fmt.Fprintf(w, "  Duration:  %s\n", m.DurationText)
	if m.VideoFile != "" {
		fmt.Fprintf(w, "  Video:     %s\n", m.VideoFile)
	}
	fmt.Fprintf(w, "  Cover:     %s\n", m.Cover.Normal)
	if m.Synopsis != nil && *m.Synopsis != "" {
		fmt.Fprintf(w, "\n%s\n", *m.Synopsis)
	}
}

func runMoviesAdd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	req := AddMovieRequest{Title: args[0]}
	req.Year, _ = f.GetInt("year")
	req.Category, _ = f.GetString("category")
	req.Director, _ = f.GetString("director")
	req.Producer, _ = f.GetString("producer")
	req.Actors, _ = f.GetString("actors")
	req.Duration, _ = f.GetInt("duration")
	req.Synopsis, _ = f.GetString("synopsis")
	req.VideoFile, _ = f.GetString("video")
	req.CoverSource, _ = f.GetString("cover")

	m, err := NewClient(serverURL).AddMovie(req)
	if err != nil {
		return fmt.Errorf("failed to add movie: %w", err)
	}

	if jsonOutput {
		printJSON(m)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", m.Title)
	return nil
}

// buildUpdate turns the flags the user actually set into a partial update.
func buildUpdate(cmd *cobra.Command) UpdateMovieRequest {
	f := cmd.Flags()
	var req UpdateMovieRequest
	intFlag := func(name string) *int {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetInt(name)
		return &v
	}
	stringFlag := func(name string) *string {
		if !f.Changed(name) {
			return nil
		}
		v, _ := f.GetString(name)
		return &v
	}
	req.Year = intFlag("year")
	req.Category = stringFlag("category")
	req.Director = stringFlag("director")
	req.Producer = stringFlag("producer")
	req.Actors = stringFlag("actors")
	req.Duration = intFlag("duration")
	req.VideoFile = stringFlag("video")
	req.CoverSource = stringFlag("cover")
	return req
}

func runMoviesEdit(cmd *cobra.Command, args []string) error {
	req := buildUpdate(cmd)
	if req == (UpdateMovieRequest{}) {
		return fmt.Errorf("nothing to change, see --help")
	}

	m, err := NewClient(serverURL).UpdateMovie(args[0], req)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if jsonOutput {
		printJSON(m)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", m.Title)
	return nil
}

func runMoviesRemove(cmd *cobra.Command, args []string) error {
	if err := NewClient(serverURL).DeleteMovie(args[0]); err != nil {
		return fmt.Errorf("failed to remove movie: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

func runMoviesSynopsis(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	title := args[0]

	if len(args) == 2 {
		text := args[1]
		if text == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read synopsis: %w", err)
			}
			text = strings.TrimRight(string(data), "\n")
		}
		if err := client.SetSynopsis(title, text); err != nil {
			return fmt.Errorf("failed to set synopsis: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated synopsis of %s\n", title)
		return nil
	}

	resp, err := client.Synopsis(title)
	if err != nil {
		return fmt.Errorf("failed to get synopsis: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Synopsis)
	return nil
}

func runMoviesHistory(cmd *cobra.Command, args []string) error {
	resp, err := NewClient(serverURL).MovieHistory(args[0])
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printEvents(cmd.OutOrStdout(), resp.Items)
	return nil
}
