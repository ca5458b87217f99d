package cmd

import (
	"byteaccess/utils"
	"github.com/urfave/cli"
)

var attach = cli.Command{
	Name:    "shell",
	Aliases: []string{"attach"},
	Usage:   "open an interactive shell on a file or process",
	Flags:   flags(true),
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 0, utils.ExactArgs, nil); err != nil {
			return err
		}

		return exec(Shell, context)
	},
}
