/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
	"github.com/josephgoksu/officekit/internal/ui"
	"github.com/josephgoksu/officekit/types"
)

var (
	samplesHost   string
	samplesCustom bool
	samplesLimit  int
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "Browse the reference samples used for code generation",
}

var samplesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List samples, optionally for one host",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := loadSamples(cmd)
		if err != nil {
			return err
		}
		host := samplesHost
		if host != "" {
			host = spec.NormalizeHost(host)
		}
		list := provider.All(host)
		if isJSON() {
			return printJSON(list)
		}
		if len(list) == 0 {
			cmd.Println("No samples found.")
			return nil
		}

		table := &ui.Table{Headers: []string{"ID", "Host", "CF", "Description"}, MaxWidth: 60}
		for _, s := range list {
			cf := ""
			if s.CustomFunction {
				cf = "✓"
			}
			table.Rows = append(table.Rows, []string{s.ID, s.Host, cf, s.Description})
		}
		cmd.Print(table.Render())
		return nil
	},
}

var samplesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one sample with its code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := loadSamples(cmd)
		if err != nil {
			return err
		}
		s, ok := provider.Get(args[0])
		if !ok {
			return types.NewCLIError(fmt.Sprintf("sample %q not found", args[0]), "run 'officekit samples list' to see available ids", nil)
		}
		if isJSON() {
			return printJSON(s)
		}
		renderSample(cmd, s, -1)
		return nil
	},
}

var samplesSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Rank samples for a request the way code generation does",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if samplesHost == "" {
			return types.NewCLIError("--host is required", "e.g. --host excel", nil)
		}
		provider, err := loadSamples(cmd)
		if err != nil {
			return err
		}
		matches, err := provider.Relevant(cmd.Context(), samples.Query{
			Text:           strings.Join(args, " "),
			Host:           spec.NormalizeHost(samplesHost),
			CustomFunction: samplesCustom,
			Limit:          samplesLimit,
		})
		if err != nil {
			return fmt.Errorf("rank samples: %w", err)
		}
		if isJSON() {
			return printJSON(matches)
		}
		if len(matches) == 0 {
			cmd.Println("No matching samples.")
			return nil
		}
		for _, m := range matches {
			renderSample(cmd, m.Sample, m.Score)
		}
		return nil
	},
}

func loadSamples(cmd *cobra.Command) (*samples.Provider, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return newSamplesProvider(cmd.Context(), cfg)
}

// renderSample prints a sample box; a negative score is not shown.
func renderSample(cmd *cobra.Command, s samples.Sample, score float64) {
	title := fmt.Sprintf("%s • %s", s.ID, s.Host)
	if score >= 0 {
		title += fmt.Sprintf(" • score %.2f", score)
	}
	cmd.Println(ui.StyleTitle.Render(title))
	cmd.Println(ui.StyleSubtle.Render(s.Description))
	cmd.Println(ui.StyleSampleBox.Render(strings.TrimRight(s.Code, "\n")))
}

func init() {
	rootCmd.AddCommand(samplesCmd)
	samplesCmd.AddCommand(samplesListCmd)
	samplesCmd.AddCommand(samplesShowCmd)
	samplesCmd.AddCommand(samplesSearchCmd)

	samplesCmd.PersistentFlags().StringVar(&samplesHost, "host", "", "Office host: excel, word, powerpoint, outlook")
	samplesSearchCmd.Flags().BoolVar(&samplesCustom, "custom-function", false, "search Excel custom function samples")
	samplesSearchCmd.Flags().IntVar(&samplesLimit, "limit", samples.DefaultLimit, "maximum number of samples")
}
