package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/doctor"
	"github.com/thoreinstein/mcpi/internal/manager"
)

var infoShowSecrets bool

func init() {
	infoCmd.Flags().BoolVar(&infoShowSecrets, "show-secrets", false, "reveal masked secrets")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show a server's recipe and its state in every scope",
	Long: `Show what the catalog knows about a server and how it is configured in each
scope of the client.

The effective scope is the most specific one where the server is enabled;
that is the configuration the client will use.`,
	Example: `  mcpi info filesystem
  mcpi info filesystem --client cursor --json`,
	Args: flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	return runInfoWithWriter(cmd.OutOrStdout(), mgr, args[0])
}

func runInfoWithWriter(w io.Writer, mgr *manager.Manager, id string) error {
	info, err := mgr.Info(id)
	if err != nil {
		return err
	}
	if !infoShowSecrets {
		for i := range info.Records {
			info.Records[i].Spec = doctor.MaskSpec(info.Records[i].Spec)
		}
	}
	if flags.JSON() {
		return writeJSON(w, info)
	}

	fmt.Fprintf(w, "%s\n", header(id))
	if r := info.Recipe; r != nil {
		fmt.Fprintf(w, "  Name:        %s\n", r.Name)
		fmt.Fprintf(w, "  Description: %s\n", r.Description)
		fmt.Fprintf(w, "  Author:      %s\n", r.Author)
		fmt.Fprintf(w, "  Method:      %s (%s)\n", r.Installation.Method, r.Installation.Package)
		fmt.Fprintf(w, "  Version:     %s\n", r.Versions.Latest)
		if len(r.Configuration.RequiredParams) > 0 {
			fmt.Fprintf(w, "  Required:    %s\n", strings.Join(r.Configuration.RequiredParams, ", "))
		}
		if len(r.Configuration.OptionalParams) > 0 {
			fmt.Fprintf(w, "  Optional:    %s\n", strings.Join(r.Configuration.OptionalParams, ", "))
		}
		fmt.Fprintf(w, "  Platforms:   %s\n", strings.Join(r.Platforms, ", "))
		if r.Repository != "" {
			fmt.Fprintf(w, "  Repository:  %s\n", r.Repository)
		}
	} else {
		fmt.Fprintf(w, "  %s\n", gray("(not in the catalog)"))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Scopes"))
	if len(info.Records) == 0 {
		fmt.Fprintf(w, "  %s\n", gray("(not configured for "+mgr.Client().Name()+")"))
		return nil
	}
	for _, rec := range info.Records {
		marker := " "
		if rec.Scope == info.Effective {
			marker = green("*")
		}
		fmt.Fprintf(w, "%s %-14s %s  %s\n", marker, rec.Scope, stateColor(rec.State), commandLine(rec))
		for _, k := range slices.Sorted(maps.Keys(rec.Spec.Env)) {
			fmt.Fprintf(w, "      %s=%s\n", k, rec.Spec.Env[k])
		}
	}
	if info.Effective != "" {
		fmt.Fprintf(w, "\n%s effective scope\n", green("*"))
	}
	return nil
}
