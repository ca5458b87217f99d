package cmd

import (
	"byteaccess/utils"
	"github.com/urfave/cli"
)

var write = cli.Command{
	Name:      "write",
	Aliases:   []string{"set"},
	Usage:     "write DATA at absolute OFFSET. Writing process memory is unsafe: the target keeps running while it changes.",
	ArgsUsage: "OFFSET DATA",
	Flags: flags(true,
		cli.BoolFlag{
			Name:  "hex, x",
			Usage: "DATA is hex encoded",
		},
	),
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 2, utils.ExactArgs, writeArgsCheck); err != nil {
			return err
		}

		return exec(Write, context)
	},
}

type writeArgs struct {
	offset uint64
	data   []byte
}

func wArgs(context *cli.Context) (*writeArgs, error) {
	args := context.Args()

	offset, err := utils.ParseUint(args.First())
	if err != nil {
		return nil, err
	}
	data, err := utils.ParseData(args.Get(1), context.Bool("hex"))
	if err != nil {
		return nil, err
	}

	return &writeArgs{
		offset: offset,
		data:   data,
	}, nil
}

func writeArgsCheck(args cli.Args) error {
	_, err := utils.ParseUint(args.First())
	return err
}

func (ex *executor) write() error {
	w, err := wArgs(ex.ctx)
	if err != nil {
		return err
	}

	view, err := ex.res.ByteAccess(w.offset, uint64(len(w.data)))
	if err != nil {
		return err
	}

	if err := view.WriteBytes(0, w.data); err != nil {
		return err
	}

	bs, err := view.ReadAll()
	if err != nil {
		return err
	}

	utils.PrintBytes(ex.out, w.offset, bs)
	return nil
}
