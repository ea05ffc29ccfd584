package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pders01/jaenan/internal/alert"
	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/share"
	"github.com/pders01/jaenan/internal/storage"
	"github.com/pders01/jaenan/internal/tui"
)

type queryFlags struct {
	page    int
	size    int
	search  string
	regions []string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&f.size, "size", "n", 0, "messages per page, 1-10 (default from config)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "search term")
	cmd.Flags().StringSliceVarP(&f.regions, "region", "r", nil, "region filter, repeatable")
}

func (f *queryFlags) query(cfg *config.Config) (alert.Query, error) {
	q := alert.NewQuery()
	if f.page < 1 {
		return q, fmt.Errorf("page must be at least 1, got %d", f.page)
	}
	q.Page = f.page
	q.SearchTerm = strings.TrimSpace(f.search)

	size := f.size
	if size == 0 {
		size = cfg.Feed.PageSize
	}
	if !alert.ValidPageSize(size) {
		return q, fmt.Errorf("size must be between %d and %d, got %d", alert.MinPageSize, alert.MaxPageSize, size)
	}
	q.PageSize = size

	for _, r := range f.regions {
		if r = strings.TrimSpace(r); r != "" && !q.HasRegion(r) {
			q = q.ToggleRegion(r)
		}
	}
	return q, nil
}

func fetch(ctx context.Context, opts *rootOptions, q alert.Query) ([]alert.Message, int, error) {
	src, err := opts.openSource()
	if err != nil {
		return nil, 0, err
	}
	page, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return alert.Visible(page.Messages, q.PageSize), page.TotalPages, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		qf      queryFlags
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of disaster messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.query(opts.cfg)
			if err != nil {
				return err
			}
			msgs, total, err := fetch(cmd.Context(), opts, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Page       int             `json:"page"`
					TotalPages int             `json:"total_pages"`
					Messages   []alert.Message `json:"messages"`
				}{q.Page, total, msgs})
			}

			fmt.Fprintln(out, tui.HeaderStyle.Render(tui.MsgQuerySummary(q, total)))
			printMessages(out, msgs, true)
			return nil
		},
	}
	qf.register(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the latest messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			count := opts.cfg.UI.SummaryCount
			if !alert.ValidPageSize(count) {
				count = 5
			}
			q := alert.NewQuery()
			q.PageSize = count

			msgs, _, err := fetch(cmd.Context(), opts, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(msgs) == 0 {
				fmt.Fprintln(out, tui.MsgNoMessages)
				return nil
			}
			printMessages(out, msgs, false)
			return nil
		},
	}
}

func newShareCmd(opts *rootOptions) *cobra.Command {
	var (
		qf      queryFlags
		copyIt  bool
		sendIt  bool
		targets bool
	)

	cmd := &cobra.Command{
		Use:   "share <position>",
		Short: "Print, copy or share one message",
		Long: "Prints the share text of the message at <position> (1-based) on the\n" +
			"selected page. --copy puts it on the clipboard, --send hands it to the\n" +
			"first installed share command. --targets lists the installed commands.",
		Args: func(cmd *cobra.Command, args []string) error {
			if targets {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if targets {
				printTargets(cmd.OutOrStdout(), share.New(opts.cfg.Share))
				return nil
			}
			if copyIt && sendIt {
				return fmt.Errorf("--copy and --send are mutually exclusive")
			}
			pos, err := strconv.Atoi(args[0])
			if err != nil || pos < 1 {
				return fmt.Errorf("position must be a positive number, got %q", args[0])
			}
			q, err := qf.query(opts.cfg)
			if err != nil {
				return err
			}
			msgs, _, err := fetch(cmd.Context(), opts, q)
			if err != nil {
				return err
			}
			if pos > len(msgs) {
				return fmt.Errorf("page %d has %d messages", q.Page, len(msgs))
			}

			var it alert.Interaction
			it.Select(msgs[pos-1])

			out := cmd.OutOrStdout()
			switch {
			case copyIt:
				return handOff(out, opts, &it, storage.ActionCopy)
			case sendIt:
				return handOff(out, opts, &it, storage.ActionShare)
			default:
				fmt.Fprintln(out, alert.ShareText(it.Message()))
				return nil
			}
		},
	}
	qf.register(cmd)
	cmd.Flags().BoolVar(&copyIt, "copy", false, "copy to clipboard")
	cmd.Flags().BoolVar(&sendIt, "send", false, "hand to a share command")
	cmd.Flags().BoolVar(&targets, "targets", false, "list installed clipboard and share commands")
	return cmd
}

func printTargets(out io.Writer, sharer *share.Sharer) {
	clip, send := sharer.Available()
	for _, row := range []struct {
		label string
		names []string
	}{
		{"clipboard", clip},
		{"share", send},
	} {
		names := strings.Join(row.names, ", ")
		if names == "" {
			names = tui.HelpStyle.Render("none installed")
		}
		fmt.Fprintf(out, "%-10s %s\n", row.label+":", names)
	}
}

func handOff(out io.Writer, opts *rootOptions, it *alert.Interaction, action storage.Action) error {
	var (
		text string
		err  error
	)
	if action == storage.ActionShare {
		text, err = it.Share()
	} else {
		text, err = it.Copy()
	}
	if err != nil {
		return err
	}

	sharer := share.New(opts.cfg.Share)
	var method string
	if action == storage.ActionShare {
		method, err = sharer.Share(text)
	} else {
		method, err = sharer.Copy(text)
	}
	if err != nil {
		return err
	}

	m := it.Message()
	if store := opts.openStore(); store != nil {
		defer store.Close()
		rec := &storage.Interaction{
			Action:     action,
			MessageKey: m.Key(),
			Title:      alert.DisplayTitle(m),
			Text:       m.Text,
			SentAt:     m.SentAt,
		}
		if err := store.RecordInteraction(rec); err != nil {
			fmt.Fprintf(out, "warning: not recorded in history: %v\n", err)
		}
	}

	done := tui.MsgCopied
	if action == storage.ActionShare {
		done = tui.MsgShared
	}
	fmt.Fprintln(out, tui.MsgHandedOff(done, method))
	return nil
}

// shortIDLen is how much of an interaction ID the history list shows.
const shortIDLen = 8

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		clearAll bool
		show     string
		del      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List copied and shared messages",
		Long: "Lists copied and shared messages, newest first. --show and --delete\n" +
			"take an ID or any unique prefix of one, as printed in the list.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" && del != "" {
				return fmt.Errorf("--show and --delete are mutually exclusive")
			}
			store, err := storage.NewStore(opts.cfg.Database.Path, opts.cfg.Database.Timeout)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			switch {
			case clearAll:
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			case show != "":
				return showInteraction(out, store, show)
			case del != "":
				id, err := store.ResolveID(del)
				if err != nil {
					return err
				}
				if err := store.DeleteInteraction(id); err != nil {
					return err
				}
				fmt.Fprintf(out, "deleted %s\n", id)
				return nil
			}

			items, err := store.RecentInteractions(limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "no history yet")
				return nil
			}

			for _, it := range items {
				fmt.Fprintf(out, "%-8s %-14s %-5s %s %s\n",
					shortID(it.ID),
					humanize.Time(it.At),
					it.Action,
					tui.TagStyle.Render(it.Title),
					tui.TimeStyle.Render(it.SentAt))
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s total • %d copied • %d shared\n",
				humanize.Comma(int64(stats.Total)),
				stats.ByAction[storage.ActionCopy],
				stats.ByAction[storage.ActionShare])
			fmt.Fprintln(out, tui.HelpStyle.Render("database: "+store.Path()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of entries")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all history")
	cmd.Flags().StringVar(&show, "show", "", "print one entry in full")
	cmd.Flags().StringVar(&del, "delete", "", "delete one entry")
	return cmd
}

func showInteraction(out io.Writer, store *storage.Store, ref string) error {
	id, err := store.ResolveID(ref)
	if err != nil {
		return err
	}
	it, err := store.GetInteraction(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s %s\n", it.ID, it.Action, humanize.Time(it.At))
	fmt.Fprintln(out, it.Text)
	fmt.Fprintf(out, "발송일: %s\n", it.SentAt)
	return nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfig": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", tui.AppName, Version)
			fmt.Fprintln(out, tui.Tagline)
			fmt.Fprintln(out, "github.com/pders01/jaenan")
		},
	}
}

func newGenerateConfigCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:         "generate-config",
		Short:       "Write the default configuration file",
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = defaultConfigPath()
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "output path (default ~/.config/jaenan/config.toml)")
	return cmd
}

func printMessages(out io.Writer, msgs []alert.Message, withMeta bool) {
	for i, m := range msgs {
		fmt.Fprintf(out, "%2d. %s %s\n", i+1,
			tui.TagStyle.Render("["+alert.DisplayTitle(m)+"]"),
			strings.TrimSpace(alert.Body(m)))
		if withMeta {
			fmt.Fprintf(out, "    %s • %s\n",
				tui.LocationStyle.Render(m.LocationString()),
				tui.TimeStyle.Render(m.SentAt))
		}
	}
}
