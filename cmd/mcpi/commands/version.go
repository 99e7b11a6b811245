package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpi/cmd"
	"github.com/thoreinstein/mcpi/cmd/mcpi/commands/flags"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  flags.UsageArgs(cobra.NoArgs),
	RunE: func(c *cobra.Command, _ []string) error {
		return runVersionWithWriter(c.OutOrStdout())
	},
}

type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func runVersionWithWriter(w io.Writer) error {
	out := versionOutput{
		Version:   cmd.Version,
		Commit:    cmd.Commit,
		Date:      cmd.Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if flags.JSON() {
		return writeJSON(w, out)
	}
	fmt.Fprintf(w, "mcpi version %s\n", out.Version)
	fmt.Fprintf(w, "  commit:   %s\n", out.Commit)
	fmt.Fprintf(w, "  built:    %s\n", out.Date)
	fmt.Fprintf(w, "  go:       %s\n", out.GoVersion)
	fmt.Fprintf(w, "  platform: %s\n", out.Platform)
	return nil
}
