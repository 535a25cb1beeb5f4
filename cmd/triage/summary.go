package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
	"github.com/spf13/cobra"
)

const summaryUsage = `Please provide the filepath of the disaster messages database as the only argument.

Example: triage summary DisasterResponse.db`

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <database_path>",
		Short: "Show genre and category distributions of the stored messages",
		Args:  exactArgs(1, summaryUsage),
		RunE:  runSummary,
	}
}

// count is one bar of a distribution.
type count struct {
	Name  string
	Count int
}

// summary holds the distributions shown by the summary command.
type summary struct {
	Rows       int
	Genres     []count
	Categories []count
}

func runSummary(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, config.ExpandPath(args[0]))
	if err != nil {
		return err
	}
	defer closeStore(store)

	tbl, err := store.ReadTable(ctx, settings.Table)
	if err != nil {
		return err
	}
	s, err := summarize(tbl)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeSummary(out, settings.Table, s)

	last, err := store.LatestETLRun(ctx, settings.Table)
	switch {
	case err == nil:
		_, _ = fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf(
			"Last processed %s from %s and %s",
			last.FinishedAt.Format("2006-01-02 15:04:05"), last.MessagesPath, last.CategoriesPath)))
	case !errors.Is(err, common.ErrNotFound):
		return err
	}
	return nil
}

// summarize counts messages per genre (by name) and positive labels per
// category (most frequent first).
func summarize(tbl *dataset.Table) (*summary, error) {
	s := &summary{Rows: tbl.Len()}

	if tbl.ColumnIndex(model.ColumnGenre) >= 0 {
		genres, err := tbl.TextColumn(model.ColumnGenre)
		if err != nil {
			return nil, err
		}
		byGenre := make(map[string]int)
		for _, g := range genres {
			byGenre[g]++
		}
		for name, n := range byGenre {
			s.Genres = append(s.Genres, count{Name: name, Count: n})
		}
		sort.Slice(s.Genres, func(i, j int) bool { return s.Genres[i].Name < s.Genres[j].Name })
	}

	for _, c := range tbl.Columns {
		if model.IsMessageField(c.Name) || c.Kind != dataset.KindInteger {
			continue
		}
		values, err := tbl.IntColumn(c.Name)
		if err != nil {
			return nil, err
		}
		positives := 0
		for _, v := range values {
			if v > 0 {
				positives++
			}
		}
		s.Categories = append(s.Categories, count{Name: c.Name, Count: positives})
	}
	sort.SliceStable(s.Categories, func(i, j int) bool { return s.Categories[i].Count > s.Categories[j].Count })

	return s, nil
}

func writeSummary(w io.Writer, table string, s *summary) {
	_, _ = fmt.Fprintf(w, "%s\n", cli.FormatTitle(fmt.Sprintf("%s: %d messages", table, s.Rows)))

	_, _ = fmt.Fprintf(w, "%s\n", cli.TitleStyle.Render(cli.ChartIcon+" Distribution of Message Genres"))
	_, _ = fmt.Fprintln(w, cli.RenderTable([]string{"genre", "count"}, countRows(s.Genres)))

	_, _ = fmt.Fprintf(w, "%s\n", cli.TitleStyle.Render(cli.ChartIcon+" Distribution of Message Categories"))
	_, _ = fmt.Fprintln(w, cli.RenderTable([]string{"category", "count"}, countRows(s.Categories)))
}

func countRows(counts []count) [][]string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Name, strconv.Itoa(c.Count)}
	}
	return rows
}
