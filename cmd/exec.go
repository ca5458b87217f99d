package cmd

import (
	"errors"
	"fmt"
	"io"

	"byteaccess/pkg/byteaccess"
	"byteaccess/pkg/logflags"
	"byteaccess/pkg/terminal"
	"byteaccess/utils"
	"github.com/urfave/cli"
)

type ExecType int

const (
	Read ExecType = iota
	Write
	Maps
	Ps
	Shell
)

type executor struct {
	et  ExecType
	ctx *cli.Context
	res byteaccess.Context
	out io.Writer
}

func newExecutor(et ExecType, ctx *cli.Context) *executor {
	return &executor{
		et:  et,
		ctx: ctx,
		out: ctx.App.Writer,
	}
}

func exec(et ExecType, ctx *cli.Context) error {
	if err := logflags.Setup(ctx.Bool("log"), ctx.String("log-output"), ctx.String("log-dest")); err != nil {
		return err
	}

	ex := newExecutor(et, ctx)
	return ex.run()
}

func (ex *executor) run() error {
	if ex.et == Ps {
		return ex.ps()
	}

	res, err := openContext(ex.ctx)
	if err != nil {
		return err
	}
	ex.res = res
	defer res.Close()

	switch ex.et {
	case Read:
		return ex.read()
	case Write:
		return ex.write()
	case Maps:
		return ex.maps()
	case Shell:
		return terminal.New(res).Run()
	}

	return nil
}

var errResource = errors.New("exactly one of --file, --proc or --pid is required")

func openContext(ctx *cli.Context) (byteaccess.Context, error) {
	file, proc, pid := ctx.String("file"), ctx.String("proc"), ctx.Int("pid")

	set := 0
	for _, ok := range []bool{file != "", proc != "", pid != 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errResource
	}

	policy, err := byteaccess.ParsePolicy(ctx.String("policy"))
	if err != nil {
		return nil, err
	}

	switch {
	case file != "":
		return byteaccess.Open(file)
	case proc != "":
		return byteaccess.Attach(proc, byteaccess.WithPolicy(policy))
	default:
		if !utils.CheckPid(pid) {
			return nil, fmt.Errorf("pid %d does not exist", pid)
		}
		return byteaccess.AttachPID(pid)
	}
}
