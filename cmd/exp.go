package cmd

import (
	"byteaccess/pkg/logflags"
	"github.com/urfave/cli"
)

const (
	usage = `byteaccess reads and writes byte ranges of a file or of the memory of a running process,
             addressed by absolute offset`
)

var resourceFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "file, f",
		Usage: "operate on the file at `PATH`",
	},
	cli.StringFlag{
		Name:  "proc, p",
		Usage: "attach to the running process named `NAME`",
	},
	cli.IntFlag{
		Name:  "pid",
		Usage: "attach to the process with id `PID`",
	},
	cli.StringFlag{
		Name:  "policy",
		Value: "error",
		Usage: "what to do when --proc matches several processes: error, lowest-pid or newest",
	},
}

var logFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "log, l",
		Usage: "enable debug logging",
	},
	cli.StringFlag{
		Name:  "log-output",
		Usage: "comma separated list of subsystems to log: access, attach",
	},
	cli.StringFlag{
		Name:  "log-dest",
		Usage: "write logs to `FILE` instead of stderr",
		Value: logflags.DefaultLogDesc,
	},
}

// flags returns own followed by the log flags, and the resource flags when
// withResource is set.
func flags(withResource bool, own ...cli.Flag) []cli.Flag {
	fs := make([]cli.Flag, 0, len(own)+len(resourceFlags)+len(logFlags))
	fs = append(fs, own...)
	if withResource {
		fs = append(fs, resourceFlags...)
	}
	return append(fs, logFlags...)
}

func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "byteaccess"
	app.Usage = usage
	app.Version = "0.3.0"
	app.Commands = []cli.Command{
		read,
		write,
		maps,
		ps,
		attach,
	}

	return app
}
