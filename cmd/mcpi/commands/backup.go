package commands

import "github.com/thoreinstein/mcpi/cmd/mcpi/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
