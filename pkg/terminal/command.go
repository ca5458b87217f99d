package terminal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"byteaccess/pkg/byteaccess"
	"byteaccess/utils"
	"github.com/google/shlex"
)

var (
	argumentsErr = "invalid number of arguments, expected %s, actual %d"
)

type cmdFn func(term *Term, args []string) error

type command struct {
	aliases []string
	fn      cmdFn
	usage   string
	help    string
}

func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

type Commands struct {
	cmds []command
}

func NewCommands() *Commands {
	c := &Commands{}

	c.cmds = []command{
		{
			aliases: []string{"help", "h"},
			fn:      c.help,
			usage:   "help",
			help:    "Prints the help message.",
		},
		{
			aliases: []string{"view", "v"},
			fn:      view,
			usage:   "view <name> <offset> <size>",
			help:    "create a named view of <size> bytes at absolute <offset>. An existing view of the same name is replaced.",
		},
		{
			aliases: []string{"views", "ls"},
			fn:      views,
			usage:   "views",
			help:    "list the named views.",
		},
		{
			aliases: []string{"read", "r", "dump"},
			fn:      read,
			usage:   "read <name> [<offset> <length>]",
			help:    "hex dump <length> bytes at relative <offset> of a view, or the whole view.",
		},
		{
			aliases: []string{"write", "w"},
			fn:      write,
			usage:   "write <name> <offset> <data>",
			help:    "write the text <data> at relative <offset> of a view. Quote data containing spaces.",
		},
		{
			aliases: []string{"writehex", "wx"},
			fn:      writeHex,
			usage:   "writehex <name> <offset> <hex>",
			help:    "write hex encoded bytes at relative <offset> of a view.",
		},
		{
			aliases: []string{"maps"},
			fn:      maps,
			usage:   "maps",
			help:    "list the memory mappings of the attached process.",
		},
		{
			aliases: []string{"exit", "quit", "q"},
			fn:      exit,
			usage:   "exit",
			help:    "exit the shell",
		},
	}
	return c
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) command {
	if cmdstr == "" {
		return command{aliases: []string{"nullcmd"}, fn: nullCommand}
	}

	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v
		}
	}

	return command{aliases: []string{"nocmd"}, fn: noCmdAvailable}
}

func (c *Commands) Call(cmdStr string, t *Term) error {
	args, err := shlex.Split(cmdStr)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	return c.Find(args[0]).fn(t, args[1:])
}

func (c *Commands) help(t *Term, args []string) error {
	fmt.Fprintln(t.stdout, "The following commands are available:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 0, '-', 0)
	for _, cmd := range c.cmds {
		if len(cmd.aliases) > 1 {
			fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.usage, strings.Join(cmd.aliases[1:], " | "), cmd.help)
		} else {
			fmt.Fprintf(w, "    %s \t %s\n", cmd.usage, cmd.help)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(t.stdout)
	return nil
}

func checkArgs(args []string, expected ...int) error {
	for _, n := range expected {
		if len(args) == n {
			return nil
		}
	}

	want := make([]string, len(expected))
	for i, n := range expected {
		want[i] = fmt.Sprint(n)
	}
	return fmt.Errorf(argumentsErr, strings.Join(want, " or "), len(args))
}

func view(t *Term, args []string) error {
	if err := checkArgs(args, 3); err != nil {
		return err
	}

	offset, err := utils.ParseUint(args[1])
	if err != nil {
		return err
	}
	size, err := utils.ParseUint(args[2])
	if err != nil {
		return err
	}

	v, err := t.ctx.ByteAccess(offset, size)
	if err != nil {
		return err
	}

	t.addView(args[0], v)
	_, err = fmt.Fprintf(t.stdout, "%s: %#x-%#x (%d bytes)\n", args[0], v.Offset(), v.Offset()+v.Size(), v.Size())
	return err
}

func views(t *Term, args []string) error {
	names := make([]string, 0, len(t.views))
	for name := range t.views {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := t.views[name]
		fmt.Fprintf(t.stdout, "%s\t%#x-%#x (%d bytes)\n", name, v.Offset(), v.Offset()+v.Size(), v.Size())
	}
	return nil
}

func read(t *Term, args []string) error {
	if err := checkArgs(args, 1, 3); err != nil {
		return err
	}

	v, err := t.view(args[0])
	if err != nil {
		return err
	}

	var offset, length uint64 = 0, v.Size()
	if len(args) == 3 {
		if offset, err = utils.ParseUint(args[1]); err != nil {
			return err
		}
		if length, err = utils.ParseUint(args[2]); err != nil {
			return err
		}
	}

	bs, err := v.ReadBytes(offset, length)
	if err != nil {
		return err
	}

	utils.PrintBytes(t.stdout, v.Offset()+offset, bs)
	return nil
}

func write(t *Term, args []string) error {
	return writeData(t, args, false)
}

func writeHex(t *Term, args []string) error {
	return writeData(t, args, true)
}

func writeData(t *Term, args []string, isHex bool) error {
	if err := checkArgs(args, 3); err != nil {
		return err
	}

	v, err := t.view(args[0])
	if err != nil {
		return err
	}
	offset, err := utils.ParseUint(args[1])
	if err != nil {
		return err
	}
	data, err := utils.ParseData(args[2], isHex)
	if err != nil {
		return err
	}

	if err := v.WriteBytes(offset, data); err != nil {
		return err
	}

	_, err = fmt.Fprintf(t.stdout, "wrote %d bytes at %#x\n", len(data), v.Offset()+offset)
	return err
}

var errNotProcess = errors.New("maps is only available when attached to a process")

func maps(t *Term, args []string) error {
	mc, ok := t.ctx.(*byteaccess.MemContext)
	if !ok {
		return errNotProcess
	}

	regions, err := mc.Regions()
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(regions))
	for _, r := range regions {
		lines = append(lines, r.String())
	}
	utils.PrintStringLine(t.stdout, lines...)
	return nil
}

type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

func exit(t *Term, args []string) error {
	return ExitRequestError{}
}

var errNoCmd = errors.New("command not available")

func noCmdAvailable(t *Term, args []string) error {
	return errNoCmd
}

func nullCommand(t *Term, args []string) error {
	return nil
}
