/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/history"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/ui"
	"github.com/josephgoksu/officekit/types"
)

var (
	historyLimit     int
	historyHost      string
	historyStatus    string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"turns"},
	Short:   "Inspect recorded copilot turns",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent turns",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		opts := history.ListOptions{Limit: historyLimit, Status: historyStatus}
		if historyHost != "" {
			opts.Host = spec.NormalizeHost(historyHost)
		}
		turns, err := store.List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(turns)
		}
		if len(turns) == 0 {
			cmd.Println("No turns recorded yet.")
			return nil
		}

		table := &ui.Table{Headers: []string{"ID", "When", "Host", "Cx", "Status", "Request"}, MaxWidth: 48}
		for _, t := range turns {
			table.Rows = append(table.Rows, []string{
				ui.ShortID(t.ID),
				t.CreatedAt.Local().Format("01-02 15:04"),
				t.Host,
				strconv.Itoa(t.Complexity),
				ui.StatusStyle(t.Status).Render(t.Status),
				t.UserInput,
			})
		}
		cmd.Print(table.Render())
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one turn with its breakdown and code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		turn, err := store.Get(cmd.Context(), args[0])
		if errors.Is(err, history.ErrNotFound) {
			return types.NewCLIError(fmt.Sprintf("turn %q not found", args[0]), "run 'officekit history list' to see recent ids", err)
		}
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(turn)
		}
		renderTurn(cmd, turn)
		return nil
	},
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete turns older than a given age",
	Example: `  officekit history purge --older-than 720h
  officekit history purge --older-than 0   # delete everything`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyOlderThan < 0 {
			return types.NewCLIError("--older-than must not be negative", "", nil)
		}
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		n, err := store.Purge(cmd.Context(), time.Now().Add(-historyOlderThan))
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]int64{"deleted": n})
		}
		if !isQuiet() {
			cmd.Println(ui.StyleSuccess.Render(fmt.Sprintf("✓ Deleted %d turn(s)", n)))
		}
		return nil
	},
}

func openHistory() (*history.Store, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	if cfg.History.Disabled {
		return nil, types.NewCLIError("history is disabled", "set history.disabled: false in your config", nil)
	}
	return history.Open(config.GetHistoryPath())
}

func renderTurn(cmd *cobra.Command, t *history.Turn) {
	out := cmd.OutOrStdout()
	ui.KeyValues(out, [][2]string{
		{"ID", t.ID},
		{"When", t.CreatedAt.Local().Format(time.RFC1123)},
		{"Status", ui.StatusStyle(t.Status).Render(t.Status)},
		{"Host", t.Host},
		{"Complexity", fmt.Sprintf("%d (%s)", t.Complexity, spec.ComplexityBand(t.Complexity))},
		{"Custom function", strconv.FormatBool(t.IsCustomFunction)},
		{"Model", t.Model},
		{"Samples", strings.Join(t.SampleIDs, ", ")},
	})
	cmd.Println()
	cmd.Println(ui.StyleTitle.Render("Request"))
	cmd.Println(t.UserInput)
	if len(t.Tasks) > 0 {
		cmd.Println()
		cmd.Println(ui.StyleTitle.Render("Tasks"))
		for i, task := range t.Tasks {
			cmd.Printf("%d. %s\n", i+1, task)
		}
	}
	if t.Code != "" {
		cmd.Println()
		cmd.Println(ui.RenderHighlighted("typescript", t.Code))
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPurgeCmd)

	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultListLimit, "maximum number of turns")
	historyListCmd.Flags().StringVar(&historyHost, "host", "", "only turns for this Office host")
	historyListCmd.Flags().StringVar(&historyStatus, "status", "", "only turns with this status (generated, rejected, ...)")
	historyPurgeCmd.Flags().DurationVar(&historyOlderThan, "older-than", 30*24*time.Hour, "age cutoff, e.g. 720h")
}
