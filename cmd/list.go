package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"byteaccess/pkg/byteaccess"
	"byteaccess/pkg/prowler"
	"byteaccess/utils"
	"github.com/urfave/cli"
)

var maps = cli.Command{
	Name:  "maps",
	Usage: "list the memory mappings of a process",
	Flags: flags(true,
		cli.StringSliceFlag{
			Name:  "perms",
			Usage: "only mappings whose permissions start with one of these prefixes, e.g. rw",
		},
		cli.StringSliceFlag{
			Name:  "path",
			Usage: "only mappings whose path ends with one of these suffixes",
		},
	),
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 0, utils.ExactArgs, nil); err != nil {
			return err
		}

		return exec(Maps, context)
	},
}

var ps = cli.Command{
	Name:      "ps",
	Usage:     "list the running processes a name resolves to",
	ArgsUsage: "NAME",
	Flags:     flags(false),
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 1, utils.ExactArgs, nil); err != nil {
			return err
		}

		return exec(Ps, context)
	},
}

var errNotProcess = errors.New("maps needs --proc or --pid")

func filterRegions(regions []prowler.MemoryRegion, perms, paths []string) []prowler.MemoryRegion {
	var out []prowler.MemoryRegion
	for _, r := range regions {
		if len(perms) > 0 && !utils.PrefixIn(r.Perms, perms) {
			continue
		}
		if len(paths) > 0 && !utils.SuffixIn(r.Path, paths) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (ex *executor) maps() error {
	mc, ok := ex.res.(*byteaccess.MemContext)
	if !ok {
		return errNotProcess
	}

	regions, err := mc.Regions()
	if err != nil {
		return err
	}

	var lines []string
	for _, r := range filterRegions(regions, ex.ctx.StringSlice("perms"), ex.ctx.StringSlice("path")) {
		lines = append(lines, r.String())
	}
	utils.PrintStringLine(ex.out, lines...)
	return nil
}

func (ex *executor) ps() error {
	name := ex.ctx.Args().First()

	procs, err := prowler.FindProcess(name)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ex.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tSTATE\tSTART\tEXE\tCOMMAND")
	for _, p := range procs {
		fmt.Fprintf(w, "%d\t%c\t%d\t%s\t%s\n", p.Pid, p.State, p.StartTime, p.Exe, p.Comm)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(procs) > 1 {
		fmt.Fprintf(ex.out, "%d processes match %q; attach with --pid or choose a --policy\n", len(procs), name)
	}
	return nil
}
