package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marcus/sidenotes/internal/autosave"
	"github.com/marcus/sidenotes/internal/notes"
	"github.com/marcus/sidenotes/internal/richtext"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first then most recently edited",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, _ := cmd.Flags().GetBool("deleted")
		list := store.List
		if deleted {
			list = store.ListDeleted
		}
		all, err := list()
		if err != nil {
			return err
		}
		if q, _ := cmd.Flags().GetString("search"); q != "" {
			all = notes.Filter(all, q)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(all)
		}
		return printNotes(cmd.OutOrStdout(), all, time.Now())
	},
}

// printNotes writes one row per note: pin, title, age, preview and ID.
func printNotes(w io.Writer, list []notes.Note, now time.Time) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No notes.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range list {
		pin := " "
		if n.Pinned {
			pin = "*"
		}
		preview := notes.Preview(n.Content)
		if r := []rune(preview); len(r) > 40 {
			preview = string(r[:40]) + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", pin, n.Title, humanize.RelTime(n.UpdatedAt, now, "ago", "from now"), preview, n.ID)
	}
	return tw.Flush()
}

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a note; --content - reads the body from stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		body, _ := cmd.Flags().GetString("content")
		if body == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			body = string(data)
		}

		n, err := store.Create(title, plainToMarkup(body))
		if err != nil {
			return err
		}
		e.logger.Debug("note created", "id", n.ID)
		fmt.Fprintln(cmd.OutOrStdout(), n.ID)
		return nil
	},
}

// plainToMarkup converts plain text into stored markup, one paragraph per
// line.
func plainToMarkup(text string) string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return ""
	}
	h := richtext.NewDocumentHost(richtext.NewDocument())
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			h.SplitBlock()
		}
		h.InsertText(line)
	}
	return h.Document().Markup()
}

var captureCmd = &cobra.Command{
	Use:   "capture [title]",
	Short: "Stream stdin into a new note, saving whenever input pauses",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		title := ""
		if len(args) == 1 {
			title = args[0]
		}
		n, err := store.Create(title, "")
		if err != nil {
			return err
		}

		delay, _ := cmd.Flags().GetDuration("delay")
		if delay <= 0 {
			delay = e.cfg.Editor.AutoSaveDelay
		}

		// done blocks saves still in flight once the final write starts
		var mu sync.Mutex
		done := false
		save := func(markup string) {
			mu.Lock()
			defer mu.Unlock()
			if done {
				return
			}
			if _, err := store.UpdateContent(n.ID, markup); err != nil {
				e.logger.Warn("capture save failed", "id", n.ID, "err", err)
				return
			}
			e.logger.Debug("capture saved", "id", n.ID, "bytes", len(markup))
		}
		timer := autosave.New(delay, "", save)

		var lines []string
		sc := bufio.NewScanner(cmd.InOrStdin())
		for sc.Scan() {
			lines = append(lines, sc.Text())
			timer.Update(plainToMarkup(strings.Join(lines, "\n")))
		}
		timer.Stop()

		mu.Lock()
		done = true
		_, saveErr := store.UpdateContent(n.ID, plainToMarkup(strings.Join(lines, "\n")))
		mu.Unlock()
		if err := sc.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		if saveErr != nil {
			return saveErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), n.ID)
		return nil
	},
}

var renumberCmd = &cobra.Command{
	Use:   "renumber",
	Short: "Rewrite list markers of the lines on stdin",
	Long:  `Reads lines from stdin and prints them with list markers renumbered per indentation level (4 spaces per level).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		mode := richtext.ModeNumbered
		if bullets, _ := cmd.Flags().GetBool("bullets"); bullets {
			mode = richtext.ModeBullet
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		for _, l := range richtext.Renumber(lines, mode) {
			fmt.Fprintln(cmd.OutOrStdout(), l)
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Permanently remove notes deleted before --older-than",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		age, _ := cmd.Flags().GetDuration("older-than")
		store, err := e.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %s deleted %s.\n", humanize.Comma(n), plural(n, "note", "notes"))
		return nil
	},
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	listCmd.Flags().Bool("deleted", false, "list deleted notes instead")
	listCmd.Flags().Bool("json", false, "print JSON")
	listCmd.Flags().String("search", "", "only notes whose title or text contains this")
	newCmd.Flags().String("content", "", "plain text body, or - for stdin")
	captureCmd.Flags().Duration("delay", 0, "quiet period before saving (default editor.autoSaveDelay)")
	renumberCmd.Flags().Bool("bullets", false, "use bullets instead of numbers")
	purgeCmd.Flags().Duration("older-than", 30*24*time.Hour, "minimum time since deletion")

	rootCmd.AddCommand(listCmd, newCmd, captureCmd, renumberCmd, purgeCmd)
}
