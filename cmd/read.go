package cmd

import (
	"errors"
	"os"

	"byteaccess/utils"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
)

var read = cli.Command{
	Name:      "read",
	Aliases:   []string{"get"},
	Usage:     "read LENGTH bytes at absolute OFFSET",
	ArgsUsage: "OFFSET LENGTH",
	Flags: flags(true,
		cli.BoolFlag{
			Name:  "raw",
			Usage: "write the bytes unformatted instead of a hex dump",
		},
	),
	Action: func(context *cli.Context) error {
		if err := utils.CheckArgs(context, 2, utils.ExactArgs, readArgsCheck); err != nil {
			return err
		}

		return exec(Read, context)
	},
}

type readArgs struct {
	offset uint64
	length uint64
}

func rArgs(args cli.Args) (*readArgs, error) {
	offset, err := utils.ParseUint(args.First())
	if err != nil {
		return nil, err
	}
	length, err := utils.ParseUint(args.Get(1))
	if err != nil {
		return nil, err
	}

	return &readArgs{
		offset: offset,
		length: length,
	}, nil
}

func readArgsCheck(args cli.Args) error {
	_, err := rArgs(args)
	return err
}

var errRawTerminal = errors.New("refusing to write raw bytes to a terminal")

func (ex *executor) read() error {
	r, err := rArgs(ex.ctx.Args())
	if err != nil {
		return err
	}

	view, err := ex.res.ByteAccess(r.offset, r.length)
	if err != nil {
		return err
	}

	bs, err := view.ReadAll()
	if err != nil {
		return err
	}

	if ex.ctx.Bool("raw") {
		if f, ok := ex.out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return errRawTerminal
		}
		_, err = ex.out.Write(bs)
		return err
	}

	utils.PrintBytes(ex.out, r.offset, bs)
	return nil
}
