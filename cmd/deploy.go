/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/azure"
	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/policy"
	"github.com/josephgoksu/officekit/internal/project"
	"github.com/josephgoksu/officekit/internal/ui"
)

var (
	deployEnv        string
	deployEnvDir     string
	deployBuildDir   string
	deployProjectDir string
	deployDryRun     bool
	deployWatch      bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the add-in's Azure Functions backend",
	Long: `Package the function app build directory and zip-deploy it to the function
app recorded in env/.env.<environment> (API_FUNCTION_RESOURCE_ID and
API_FUNCTION_ENDPOINT).

The build directory and provisioning outputs are checked before any network
call. Authentication uses the Azure default credential chain (az login,
environment variables, managed identity).

Examples:
  officekit deploy --env dev
  officekit deploy --dry-run
  officekit deploy --watch --build-dir api/dist`,
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	deployCmd.Flags().StringVarP(&deployEnv, "env", "e", "", "provisioning environment (default from azure.environment)")
	deployCmd.Flags().StringVar(&deployEnvDir, "env-dir", "", "directory holding .env.<environment> files")
	deployCmd.Flags().StringVar(&deployBuildDir, "build-dir", "", "function app build directory")
	deployCmd.Flags().StringVar(&deployProjectDir, "project-dir", "", "add-in project root (default: detected from the working directory)")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "show what would be deployed without deploying")
	deployCmd.Flags().BoolVarP(&deployWatch, "watch", "w", false, "redeploy when the build directory changes")
}

// deployOptions is the resolved input of one deploy run.
type deployOptions struct {
	ProjectDir  string
	Environment string
	EnvDir      string
	BuildDir    string
	TenantID    string
	DryRun      bool
}

func resolveDeployOptions() (deployOptions, error) {
	cfg, err := GetConfig()
	if err != nil {
		return deployOptions{}, err
	}
	opts := deployOptions{
		ProjectDir:  projectRoot(deployProjectDir),
		Environment: cfg.Azure.Environment,
		EnvDir:      cfg.Azure.EnvDir,
		BuildDir:    cfg.Azure.BuildDir,
		TenantID:    cfg.Azure.TenantID,
		DryRun:      deployDryRun,
	}
	if deployEnv != "" {
		opts.Environment = deployEnv
	}
	if deployEnvDir != "" {
		opts.EnvDir = deployEnvDir
	}
	if deployBuildDir != "" {
		opts.BuildDir = deployBuildDir
	}
	return opts, nil
}

// projectRoot returns explicit, or the detected add-in root, or ".".
func projectRoot(explicit string) string {
	if explicit != "" {
		return explicit
	}
	ctx, err := project.Detect(".")
	if err != nil {
		return "."
	}
	logger.L().Debug("detected project root", zap.String("root", ctx.RootPath), zap.Stringer("marker", ctx.MarkerType))
	return ctx.RootPath
}

// newDeployRun builds the action context and runner. deployer may be nil for dry runs.
func newDeployRun(fsys afero.Fs, opts deployOptions, deployer azure.Deployer, pol azure.PolicyEvaluator, out io.Writer) (*azure.Runner, *azure.Context, error) {
	envDir := opts.EnvDir
	if !filepath.IsAbs(envDir) {
		envDir = filepath.Join(opts.ProjectDir, envDir)
	}
	outputs, err := azure.LoadOutputs(fsys, envDir, opts.Environment)
	if err != nil {
		return nil, nil, err
	}

	actx := &azure.Context{
		Fs:          fsys,
		ProjectDir:  opts.ProjectDir,
		Environment: opts.Environment,
		Outputs:     outputs,
		Policy:      pol,
		Logger:      logger.Named("deploy"),
	}
	runner := &azure.Runner{
		Actions: []azure.Action{&azure.FunctionDeployAction{BuildDir: opts.BuildDir, Deployer: deployer}},
		DryRun:  opts.DryRun,
		Tracker: tracker(),
		OnEffect: func(e azure.Effect) {
			if isQuiet() || isJSON() {
				return
			}
			mark := ui.StyleSuccess.Render("✓")
			if opts.DryRun {
				mark = ui.StyleWarning.Render("~")
			}
			_, _ = fmt.Fprintf(out, "%s %s\n", mark, e.Description)
		},
	}
	return runner, actx, nil
}

func runDeploy(cmd *cobra.Command, args []string) error {
	opts, err := resolveDeployOptions()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var deployer azure.Deployer
	if !opts.DryRun {
		kudu, err := azure.NewKuduClient(nil, opts.TenantID)
		if err != nil {
			return err
		}
		deployer = kudu
	}

	var pol azure.PolicyEvaluator
	engine, err := policy.NewEngine(ctx, policy.EngineConfig{Dir: config.GetPolicyDir()})
	if err != nil {
		return fmt.Errorf("load policies: %w", err)
	}
	if engine.PolicyCount() > 0 {
		pol = engine
	}

	fsys := afero.NewOsFs()
	deployOnce := func(ctx context.Context) error {
		runner, actx, err := newDeployRun(fsys, opts, deployer, pol, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		effects, err := runner.Run(ctx, actx)
		if err != nil {
			return err
		}
		if isJSON() {
			return printJSON(map[string]any{"environment": opts.Environment, "dryRun": opts.DryRun, "effects": effects})
		}
		return nil
	}

	err = deployOnce(ctx)
	if !deployWatch {
		return err
	}
	if err != nil {
		printError(err)
	}

	buildDir := opts.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(opts.ProjectDir, buildDir)
	}
	log := logger.Named("watch")
	watcher, err := azure.NewWatcher(buildDir, config.DefaultWatchDebounce, func(ctx context.Context, changed []string) error {
		log.Info("change detected", zap.Int("files", len(changed)))
		if !isQuiet() {
			cmd.Println(ui.StyleSubtle.Render(fmt.Sprintf("%d file(s) changed, redeploying...", len(changed))))
		}
		if err := deployOnce(ctx); err != nil {
			printError(err)
		}
		return nil
	}, log)
	if err != nil {
		return err
	}
	if !isQuiet() {
		cmd.Println(ui.StyleSubtle.Render("Watching " + buildDir + " (ctrl+c to stop)"))
	}
	return watcher.Run(ctx)
}
