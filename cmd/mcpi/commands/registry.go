package commands

import "github.com/thoreinstein/mcpi/cmd/mcpi/commands/registry"

func init() {
	rootCmd.AddCommand(registry.Cmd)
}
