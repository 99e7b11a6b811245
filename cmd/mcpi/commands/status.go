package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd"
	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/cli"
	"github.com/thoreinstein/mcpi/internal/client"
	"github.com/thoreinstein/mcpi/internal/doctor"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var (
	statusFix bool
	statusAll bool
)

func init() {
	statusCmd.Flags().BoolVar(&statusFix, "fix", false, "repair fixable problems (file permissions)")
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "show passing checks too")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"doctor"},
	Short:   "Show per-scope counts and run health checks",
	Long: `Show an overview of the selected client and check mcpi's environment.

The overview lists each scope of the client with its file, whether the file
exists, and how many servers are enabled and disabled. The health checks
look for the package managers installers need, load the catalog, read every
scope of every supported client, and inspect file permissions.

Scopes that cannot be read are reported, never repaired. --fix only tightens
file permissions.

Exit codes:
  0 - No errors (warnings allowed)
  1 - At least one check failed`,
	Example: `  mcpi status
  mcpi status --all
  mcpi status --json
  mcpi status --fix`,
	Args: flags.UsageArgs(cobra.NoArgs),
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	Version string             `json:"version"`
	Status  *manager.Report    `json:"status"`
	Health  *doctor.Report     `json:"health"`
	Fixes   []doctor.FixResult `json:"fixes,omitempty"`
}

var errChecksFailed = errors.New("health checks failed")

func runStatus(c *cobra.Command, _ []string) error {
	app, err := flags.NewApp(c)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	checks, err := healthChecks(c, app)
	if err != nil {
		return err
	}
	return runStatusWithWriter(c.OutOrStdout(), mgr, checks)
}

// healthChecks builds the checks status runs for app.
func healthChecks(c *cobra.Command, app *cli.App) (*doctor.Runner, error) {
	adapters, err := app.Registry.All()
	if err != nil {
		return nil, err
	}
	r := doctor.NewRunner(
		doctor.NewToolsCheck(c.Context(), app.Runner, doctor.DefaultTools),
		doctor.NewCatalogCheck(app.Catalog),
	)
	for _, a := range adapters {
		r.AddCheck(doctor.NewClientCheck(a))
	}
	r.AddCheck(doctor.NewPathPermissionCheck(doctor.Targets(adapters...)))
	return r, nil
}

func runStatusWithWriter(w io.Writer, mgr *manager.Manager, checks *doctor.Runner) error {
	out := statusOutput{
		Version: cmd.Version,
		Status:  mgr.Status(),
		Health:  checks.Run(),
	}

	if statusFix {
		for _, f := range checks.Fixers() {
			out.Fixes = append(out.Fixes, f.Fix()...)
		}
		if len(out.Fixes) > 0 {
			out.Health = checks.Run()
		}
	}

	if flags.JSON() {
		if err := writeJSON(w, out); err != nil {
			return err
		}
	} else {
		printStatus(w, out)
	}

	if out.Health.HasErrors() {
		return errors.NewExitError(errChecksFailed, errors.ExitFailure)
	}
	return nil
}

func printStatus(w io.Writer, out statusOutput) {
	rep := out.Status
	fmt.Fprintf(w, "mcpi version %s (%s/%s)\n\n", out.Version, runtime.GOOS, runtime.GOARCH)

	fmt.Fprintf(w, "%s", header("Client: "+rep.Client))
	if rep.Installed != client.StatusInstalled {
		fmt.Fprintf(w, " %s", gray("(not installed)"))
	}
	if rep.DryRun {
		fmt.Fprintf(w, " %s", yellow("[dry run]"))
	}
	fmt.Fprintln(w)

	for _, s := range rep.Scopes {
		flagsText := ""
		if s.Scope.Primary {
			flagsText += " primary"
		}
		if s.Scope.ReadOnly {
			flagsText += " readonly"
		}
		switch {
		case s.Error != "":
			fmt.Fprintf(w, "  %-14s %s %s\n", s.Scope.Name, red("error:"), s.Error)
		case !s.Exists:
			fmt.Fprintf(w, "  %-14s %s%s\n", s.Scope.Name, gray("(no file)"), gray(flagsText))
		default:
			fmt.Fprintf(w, "  %-14s %d enabled, %d disabled%s\n", s.Scope.Name, s.Enabled, s.Disabled, gray(flagsText))
		}
		fmt.Fprintf(w, "  %-14s %s\n", "", gray(s.Scope.Location()))
	}

	fmt.Fprintf(w, "\n%s %s", bold("Catalog:"), rep.Catalog)
	switch {
	case rep.CatalogErr != "":
		fmt.Fprintf(w, " %s\n", red("("+rep.CatalogErr+")"))
	case rep.Builtin:
		fmt.Fprintf(w, " %s\n", gray(fmt.Sprintf("(missing; using %d built-in recipes)", rep.Recipes)))
	default:
		fmt.Fprintf(w, " (%d recipes)\n", rep.Recipes)
	}

	fmt.Fprintf(w, "\n%s\n", bold("Health"))
	for _, r := range out.Health.Results {
		if !statusAll && r.Status != doctor.SeverityError && r.Status != doctor.SeverityWarning {
			continue
		}
		fmt.Fprintf(w, "  %s [%s] %s: %s\n", statusIcon(r.Status), r.Category, r.Name, r.Message)
		if r.FixHint != "" && r.Status >= doctor.SeverityWarning {
			fmt.Fprintf(w, "    hint: %s\n", r.FixHint)
		}
	}
	for _, f := range out.Fixes {
		icon := green("✓")
		if !f.Fixed {
			icon = red("✗")
		}
		fmt.Fprintf(w, "  %s fixed %s: %s\n", icon, f.Path, f.Description)
	}
	sum := out.Health.Summary
	fmt.Fprintf(w, "  Summary: %d passed, %d info, %d warnings, %d errors\n",
		sum.Passed, sum.Info, sum.Warnings, sum.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return green("✓")
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return yellow("⚠")
	case doctor.SeverityError:
		return red("✗")
	default:
		return "?"
	}
}
