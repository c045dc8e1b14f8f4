package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Full-text search over the catalog",
		Long: `Search titles, people, categories, years and synopses.

Matching ignores case and accents. Words absent from the index are matched
against close spellings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	searchCmd.Flags().IntP("limit", "l", 20, "Maximum number of results")

	suggestCmd := &cobra.Command{
		Use:   "suggest <pattern>",
		Short: "Suggest titles matching a fuzzy pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuggest,
	}
	suggestCmd.Flags().IntP("limit", "l", 10, "Maximum number of suggestions")

	rootCmd.AddCommand(searchCmd, suggestCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	resp, err := NewClient(serverURL).Search(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	w := cmd.OutOrStdout()
	if len(resp.Results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", query)
		return nil
	}
	rows := make([][]string, len(resp.Results))
	for i, r := range resp.Results {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			truncate(r.Movie.Title, 40),
			yearString(r.Movie.Year),
			truncate(r.Movie.Director, 24),
			fmt.Sprintf("%.2f", r.Score),
		}
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Title", "Year", "Director", "Score"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight},
	))
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	resp, err := NewClient(serverURL).Suggest(args[0], limit)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	for _, t := range resp.Titles {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
