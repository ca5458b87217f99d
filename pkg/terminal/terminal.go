package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"byteaccess/pkg/byteaccess"
	"github.com/derekparker/trie"
	"github.com/go-delve/liner"
	"github.com/mattn/go-colorable"
)

const (
	prompt      = "(byteaccess) "
	historyDir  = ".byteaccess"
	historyFile = "history"
)

type Term struct {
	ctx         byteaccess.Context
	prompt      string
	line        *liner.State
	cmds        *Commands
	cmdTrie     *trie.Trie
	views       map[string]*byteaccess.ByteAccess
	viewTrie    *trie.Trie
	historyFile *os.File
	stdout      io.Writer
}

// New returns a shell over ctx. The caller keeps ownership of ctx.
func New(ctx byteaccess.Context) *Term {
	return newTerm(ctx, colorable.NewColorableStdout())
}

func newTerm(ctx byteaccess.Context, stdout io.Writer) *Term {
	t := &Term{
		ctx:      ctx,
		prompt:   prompt,
		stdout:   stdout,
		cmds:     NewCommands(),
		cmdTrie:  trie.New(),
		views:    make(map[string]*byteaccess.ByteAccess),
		viewTrie: trie.New(),
	}

	for _, cmd := range t.cmds.cmds {
		for _, alias := range cmd.aliases {
			t.cmdTrie.Add(alias, nil)
		}
	}

	return t
}

func (t *Term) addView(name string, v *byteaccess.ByteAccess) {
	t.views[name] = v
	t.viewTrie.Add(name, v)
}

func (t *Term) view(name string) (*byteaccess.ByteAccess, error) {
	node, found := t.viewTrie.Find(name)
	if !found {
		return nil, fmt.Errorf("no view named %q, create one with view <name> <offset> <size>", name)
	}
	return node.Meta().(*byteaccess.ByteAccess), nil
}

// complete offers command names for the first word and view names for the
// second.
func (t *Term) complete(line string) []string {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
		return nil
	case len(fields) == 1 && !strings.HasSuffix(line, " "):
		return t.cmdTrie.PrefixSearch(fields[0])
	case len(fields) == 2 && !strings.HasSuffix(line, " "):
		var c []string
		for _, name := range t.viewTrie.PrefixSearch(fields[1]) {
			c = append(c, fields[0]+" "+name)
		}
		return c
	}
	return nil
}

func (t *Term) Run() error {
	t.line = liner.NewLiner()
	defer t.Close()

	t.line.SetCtrlCAborts(true)
	t.line.SetCompleter(t.complete)

	fullHistory := filepath.Join(getUserHomeDir(), historyDir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fullHistory), 0o755); err != nil {
		return fmt.Errorf("create history dir failed: %v", err)
	}

	var err error
	t.historyFile, err = os.OpenFile(fullHistory, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open history file: %v. History will not be saved for this session.\n", err)
	} else if _, err = t.line.ReadHistory(t.historyFile); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read history file %s: %v\n", fullHistory, err)
	}

	fmt.Fprintf(t.stdout, "Attached to %s. Type 'help' for list of commands.\n", t.ctx.Name())

	for {
		cmd, err := t.promptForInput()
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(t.stdout, "exit")
				return t.handleExit()
			}
			return errors.New("prompt for input failed")
		}

		if err = t.cmds.Call(cmd, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}

			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}
	}
}

func (t *Term) Close() {
	if t.line != nil {
		t.line.Close()
	}
}

func getUserHomeDir() string {
	userHomeDir := "."
	usr, err := user.Current()
	if err == nil {
		userHomeDir = usr.HomeDir
	}
	return userHomeDir
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}

	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}

	return l, nil
}

func (t *Term) handleExit() error {
	if t.historyFile == nil {
		return nil
	}

	if err := t.historyFile.Truncate(0); err == nil {
		t.historyFile.Seek(0, io.SeekStart)
	}
	if _, err := t.line.WriteHistory(t.historyFile); err != nil {
		fmt.Fprintln(os.Stderr, "readline history error:", err)
		return err
	}
	if err := t.historyFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing history file: %s\n", err)
		return err
	}

	return nil
}
