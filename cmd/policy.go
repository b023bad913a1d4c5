/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/policy"
	"github.com/josephgoksu/officekit/internal/ui"
	"github.com/josephgoksu/officekit/types"
)

var policyInitForce bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage OPA guardrails for breakdowns and deploys",
	Long: `Manage Open Policy Agent (OPA) policies that gate what officekit does.

Policies are written in Rego and stored in .officekit/policies/*.rego (or
policy.dir). Rules in package officekit.policy see input.breakdown before code
generation and input.deploy before a function app is deployed. Any deny
message blocks; warn messages are shown but never block.

Examples:
  officekit policy init        # Create the default policy file
  officekit policy list        # List loaded policies
  officekit policy test        # Run *_test.rego unit tests
  officekit policy validate    # Check every policy compiles`,
}

var policyInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default policy file",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.GetPolicyDir()
		path, created, err := writeDefaultPolicy(afero.NewOsFs(), dir, policyInitForce)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]any{"path": path, "created": created})
		}
		if !created {
			cmd.Printf("Policy file already exists: %s\n", path)
			cmd.Println(ui.StyleSubtle.Render("Use --force to overwrite."))
			return nil
		}
		cmd.Println(ui.StyleSuccess.Render("✓ Created default policy: " + path))
		cmd.Println("\nThe default policy:")
		cmd.Println("  • denies requests with complexity above 95")
		cmd.Println("  • denies deploy packages that contain .env or local.settings.json")
		cmd.Println("  • warns on Outlook requests and prod deploys")
		return nil
	},
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.GetPolicyDir()
		files, err := policy.NewLoader(afero.NewOsFs(), dir).LoadAll()
		if err != nil {
			return err
		}
		if isJSON() {
			type entry struct {
				Name string `json:"name"`
				Path string `json:"path"`
				Test bool   `json:"test"`
			}
			out := make([]entry, 0, len(files))
			for _, f := range files {
				out = append(out, entry{Name: f.Name, Path: f.Path, Test: f.IsTest()})
			}
			return printJSON(map[string]any{"dir": dir, "count": len(files), "policies": out})
		}
		if len(files) == 0 {
			cmd.Println("No policies loaded.")
			cmd.Println("Run 'officekit policy init' to create the default policy.")
			return nil
		}
		cmd.Printf("Policies directory: %s\n", dir)
		cmd.Printf("Loaded %d file(s):\n\n", len(files))
		for _, f := range files {
			kind := ""
			if f.IsTest() {
				kind = ui.StyleSubtle.Render(" (test)")
			}
			cmd.Printf("  • %s%s\n", f.Name, kind)
		}
		return nil
	},
}

var policyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Run Rego unit tests in the policies directory",
	Long: `Run the test_ rules in *_test.rego files next to the policies.

Test file example (.officekit/policies/default_test.rego):
  package officekit.policy_test

  import data.officekit.policy

  test_deny_complex if {
      count(policy.deny) > 0 with input as {"breakdown": {"complexity": 99}}
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := policy.NewTestRunner(afero.NewOsFs(), config.GetPolicyDir()).Run(cmd.Context())
		if err != nil {
			return err
		}
		if isJSON() {
			if err := printJSON(summary); err != nil {
				return err
			}
		} else {
			for _, r := range summary.Results {
				switch {
				case r.Passed:
					cmd.Printf("  %s %s\n", ui.StyleSuccess.Render("PASS"), r.Name)
				case r.Skipped:
					cmd.Printf("  %s %s\n", ui.StyleSubtle.Render("SKIP"), r.Name)
				default:
					cmd.Printf("  %s %s %s\n", ui.StyleError.Render("FAIL"), r.Name, ui.StyleSubtle.Render(r.Error))
				}
			}
			cmd.Print(summary.FormatSummary())
		}
		if !summary.AllPassed() {
			return fmt.Errorf("%d policy test(s) failed", summary.Failed+summary.Errored)
		}
		return nil
	},
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check that policy files compile",
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := afero.NewOsFs()
		var files []*policy.File
		if len(args) > 0 {
			for _, p := range args {
				content, err := afero.ReadFile(fsys, p)
				if err != nil {
					return fmt.Errorf("read %s: %w", p, err)
				}
				files = append(files, &policy.File{Path: p, Name: filepath.Base(p), Content: string(content)})
			}
		} else {
			var err error
			if files, err = policy.NewLoader(fsys, config.GetPolicyDir()).LoadAll(); err != nil {
				return err
			}
		}

		var invalid int
		for _, f := range files {
			if err := policy.ValidatePolicy(cmd.Context(), f.Path, f.Content); err != nil {
				invalid++
				cmd.Printf("  %s %s\n    %v\n", ui.StyleError.Render("✗"), f.Path, err)
				continue
			}
			if !isQuiet() {
				cmd.Printf("  %s %s\n", ui.StyleSuccess.Render("✓"), f.Path)
			}
		}
		if invalid > 0 {
			return types.NewCLIError(fmt.Sprintf("%d of %d policy file(s) failed to compile", invalid, len(files)), "", nil)
		}
		if len(files) == 0 && !isQuiet() {
			cmd.Println("No policies to validate.")
		}
		return nil
	},
}

// writeDefaultPolicy writes the starter policy into dir unless one exists and force is unset.
func writeDefaultPolicy(fsys afero.Fs, dir string, force bool) (path string, created bool, err error) {
	path = filepath.Join(dir, policy.DefaultPolicyFile)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return path, false, err
	}
	if exists && !force {
		return path, false, nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return path, false, fmt.Errorf("create policies directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, []byte(policy.DefaultPolicy), 0o644); err != nil {
		return path, false, fmt.Errorf("write default policy: %w", err)
	}
	return path, true, nil
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyInitCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyTestCmd)
	policyCmd.AddCommand(policyValidateCmd)

	policyInitCmd.Flags().BoolVar(&policyInitForce, "force", false, "overwrite an existing default policy")
}
