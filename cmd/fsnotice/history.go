package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/fsnotice/internal/adapter/output"
	"github.com/jmylchreest/fsnotice/internal/core"
	"github.com/jmylchreest/fsnotice/internal/model"
)

var historyOpts struct {
	format     string
	limit      int
	since      string
	search     string
	fuzzy      string
	source     string
	field      string
	template   string
	noIndex    bool
	textMaxLen int
}

var historyCmd = &cobra.Command{
	Use:   "history [index|id]",
	Short: "List recently presented notices",
	Long: `List presented notices, most recent first.

With an argument, show a single notice by its 1-based index or ID.
A line selected from dmenu output is also accepted, as is "-" to read
that line from stdin.

Examples:
  fsnotice history
  fsnotice history --limit 5 --format json
  fsnotice history --since 1d --search "back"
  fsnotice history --fuzzy bkm -n 1 --field text
  fsnotice history -f dmenu | fuzzel -d | fsnotice history - --field text
  fsnotice history prune --keep 50
  fsnotice history clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all notices from history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyPruneOpts struct {
	keep int
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Keep only the most recent notices",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)

	f := historyCmd.Flags()
	f.StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format (plain, dmenu, json, yaml, ids)")
	f.IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of notices to show (0=unlimited)")
	f.StringVar(&historyOpts.since, "since", "0",
		"Only notices presented within this duration (e.g. 30m, 48h, 7d, 1w; 0=all)")
	f.StringVar(&historyOpts.search, "search", "", "Case-insensitive text search")
	f.StringVar(&historyOpts.fuzzy, "fuzzy", "", "Fuzzy text search, best match first")
	f.StringVar(&historyOpts.source, "source", "", "Filter by source (tui, cli, dbus, history)")
	f.StringVar(&historyOpts.field, "field", "",
		"Print a single field of the selected notice (id, text, font_size, color, ...)")
	f.StringVar(&historyOpts.template, "template", "", "Go template for plain/dmenu output")
	f.BoolVar(&historyOpts.noIndex, "no-index", false, "Omit the index prefix")
	f.IntVar(&historyOpts.textMaxLen, "text-max-len", 80, "Truncate text to this many characters (0=unlimited)")

	historyPruneCmd.Flags().IntVar(&historyPruneOpts.keep, "keep", 0,
		"Number of most recent notices to keep")
	_ = historyPruneCmd.MarkFlagRequired("keep")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	since, err := core.ParseDuration(historyOpts.since)
	if err != nil {
		return err
	}

	notices := core.Filter(s.Recent(0), core.FilterOptions{
		Since:  since,
		Search: historyOpts.search,
		Source: historyOpts.source,
	})
	notices = core.FuzzySearch(notices, historyOpts.fuzzy)
	if historyOpts.limit > 0 && len(notices) > historyOpts.limit {
		notices = notices[:historyOpts.limit]
	}

	if len(args) == 1 {
		ref := args[0]
		if ref == "-" {
			if ref, err = readRef(os.Stdin); err != nil {
				return err
			}
		}
		n := core.Lookup(notices, parseRef(ref))
		if n == nil {
			return fmt.Errorf("notice not found: %s", ref)
		}
		notices = []model.Notice{*n}
	}

	if historyOpts.field != "" {
		if len(notices) != 1 {
			return fmt.Errorf("--field requires a single notice; pass an index or ID")
		}
		v, err := output.FormatField(&notices[0], historyOpts.field)
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = historyOpts.template
	opts.ShowIndex = !historyOpts.noIndex
	opts.TextMaxLen = historyOpts.textMaxLen

	return writeHistory(os.Stdout, notices, output.FormatType(historyOpts.format), opts)
}

func writeHistory(w io.Writer, notices []model.Notice, format output.FormatType, opts output.FormatterOptions) error {
	formatter, err := output.NewFormatter(format, opts)
	if err != nil {
		return err
	}

	if len(notices) == 0 && (format == output.FormatPlain || format == "") {
		_, err := fmt.Fprintln(w, "No notices in history")
		return err
	}
	return formatter.Format(w, notices)
}

// readRef reads the first line from r.
func readRef(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read selection: %w", err)
		}
		return "", fmt.Errorf("no selection on stdin")
	}
	return scanner.Text(), nil
}

// parseRef extracts the index or ID from a reference, which may be a
// full dmenu line such as "3 | 5m | 200 | #ffffff | text".
func parseRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if before, _, found := strings.Cut(ref, "|"); found {
		ref = before
	}
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	count := s.Count()
	if err := s.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Printf("Removed %d notices\n", count)
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	if historyPruneOpts.keep <= 0 {
		return fmt.Errorf("--keep must be positive; use 'fsnotice history clear' to remove everything")
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	removed, err := s.Prune(historyPruneOpts.keep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Printf("Removed %d notices, kept %d\n", removed, s.Count())
	return nil
}
