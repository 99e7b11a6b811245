package commands

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
	"github.com/thoreinstein/mcpi/internal/errors"
	"github.com/thoreinstein/mcpi/internal/install"
	"github.com/thoreinstein/mcpi/internal/manager"
	"github.com/thoreinstein/mcpi/internal/mcp"
)

var (
	updateCommand string
	updateArgs    []string
	updateEnv     []string
	updateType    string
	updateParams  []string
	updateSpec    string
)

func init() {
	f := updateCmd.Flags()
	f.StringVar(&updateCommand, "command", "", "replace the launch command")
	f.StringArrayVar(&updateArgs, "arg", nil, "replace the argument list (repeatable, in order)")
	f.StringArrayVar(&updateEnv, "env", nil, "set an environment variable as KEY=VALUE (repeatable)")
	f.StringVar(&updateType, "type", "", "set the transport: stdio, sse, http")
	f.StringArrayVar(&updateParams, "param", nil, "set a --name value argument pair as name=value (repeatable)")
	f.StringVar(&updateSpec, "spec", "", "replace the whole spec with JSON, inline or from a file")
	updateCmd.MarkFlagsMutuallyExclusive("spec", "command")
	updateCmd.MarkFlagsMutuallyExclusive("spec", "arg")
	updateCmd.MarkFlagsMutuallyExclusive("spec", "env")
	updateCmd.MarkFlagsMutuallyExclusive("spec", "type")
	updateCmd.MarkFlagsMutuallyExclusive("spec", "param")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the configuration of an installed server",
	Long: `Change the launch configuration of a server in a scope, keeping its state.

Individual flags patch the current spec: --command and --type replace those
fields, --arg replaces the whole argument list, --env merges variables, and
--param sets the value following a --name argument (appending the pair if
it is absent). --spec replaces the spec wholesale with a JSON object, given
inline or as a path to a file.

A disabled server stays disabled. Keys mcpi does not manage are kept.`,
	Example: `  # Point a server at a different directory
  mcpi update filesystem --param root_path=/srv/data

  # Add a token
  mcpi update github --env GITHUB_TOKEN=ghp_xxx

  # Replace the spec from a file
  mcpi update custom --spec ./custom.json

  See Also:
    mcpi info - Show a server's current configuration`,
	Args: flags.UsageArgs(cobra.ExactArgs(1)),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	app, err := flags.NewApp(cmd)
	if err != nil {
		return err
	}
	mgr, err := app.Manager(flags.Client())
	if err != nil {
		return err
	}
	patch, err := buildUpdate(cmd)
	if err != nil {
		return err
	}
	return runUpdateWithWriter(cmd.OutOrStdout(), mgr, args[0], patch)
}

// updateRequest is either a full replacement spec or a patch.
type updateRequest struct {
	spec  *mcp.Spec
	patch manager.Patch
}

func buildUpdate(cmd *cobra.Command) (updateRequest, error) {
	f := cmd.Flags()
	if f.Changed("spec") {
		spec, err := readSpec(updateSpec)
		if err != nil {
			return updateRequest{}, err
		}
		return updateRequest{spec: &spec}, nil
	}

	var req updateRequest
	if f.Changed("command") {
		req.patch.Command = &updateCommand
	}
	if f.Changed("type") {
		req.patch.Type = &updateType
	}
	if f.Changed("arg") {
		req.patch.Args = append([]string{}, updateArgs...)
	}
	env, err := parseKV("env", updateEnv)
	if err != nil {
		return updateRequest{}, err
	}
	params, err := parseKV("param", updateParams)
	if err != nil {
		return updateRequest{}, err
	}
	req.patch.Env = env
	req.patch.Params = params

	if req.patch.Command == nil && req.patch.Type == nil && req.patch.Args == nil && env == nil && params == nil {
		err := errors.New("nothing to update")
		return updateRequest{}, errors.NewUsageError(err, "Pass --command, --arg, --env, --type, --param, or --spec")
	}
	return req, nil
}

// readSpec decodes a spec given inline or as a file path.
func readSpec(value string) (mcp.Spec, error) {
	data := []byte(value)
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") && (install.LooksLikePath(value) || strings.HasSuffix(value, ".json")) {
		b, err := os.ReadFile(value)
		if err != nil {
			return mcp.Spec{}, errors.NewUsageError(errors.Wrapf(err, "reading spec file %s", value), "")
		}
		data = b
	}

	var spec mcp.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		err = errors.Mark(errors.Wrap(err, "parsing --spec"), errors.ErrInvalidSpec)
		return mcp.Spec{}, errors.WithHint(err, `Expected a JSON object such as {"command":"npx","args":["-y","pkg"]}`)
	}
	return spec, nil
}

func runUpdateWithWriter(w io.Writer, mgr *manager.Manager, id string, req updateRequest) error {
	var (
		o   *manager.Outcome
		err error
	)
	if req.spec != nil {
		o, err = mgr.UpdateConfig(id, *req.spec, flags.Scope())
	} else {
		o, err = mgr.PatchConfig(id, flags.Scope(), req.patch)
	}
	if err != nil {
		return err
	}
	if flags.JSON() {
		return writeJSON(w, o)
	}
	printOutcome(w, o)
	return nil
}
