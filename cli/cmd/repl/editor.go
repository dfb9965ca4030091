package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/ly/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// scratch file seeded with the last executed chunk and executes whatever is
// saved. When the saved text fails to parse, the user may edit it again.
type editCommand struct {
	ctx     context.Context
	session *Session
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	result Result // outcome of the executed chunk
	err    error  // execution error of the chunk
	empty  bool   // the user saved an empty file
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run runs the edit loop. Its error reports a failure of the editor itself;
// the outcome of executing the chunk is left in c.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", pkg.Name+"-edit-*"+pkg.Ext)
	if err != nil {
		return ErrEditor.Wrap(err)
	}

	path := f.Name()
	defer os.Remove(path)

	content := c.session.Last()
	if content != "" {
		content += "\n"
	}

	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return ErrEditor.Wrap(err)
	}

	answers := bufio.NewScanner(c.stdin)

	for {
		if err := c.edit(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return ErrEditor.Wrap(err)
		}

		if strings.TrimSpace(string(data)) == "" {
			c.empty = true

			return nil
		}

		c.result, c.err = c.session.Exec(c.ctx, string(data))
		if !errors.Is(c.err, pkg.ErrParse) {
			return nil
		}

		c.session.logger.DebugContext(c.ctx, "edit parse failed", slog.Any("error", c.err))

		fmt.Fprintf(c.stderr, "\n%v\n", c.err)
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !answers.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(answers.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

func (c *editCommand) edit(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(c.ctx, args[0], args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.stdin, c.stdout, c.stderr

	if err := cmd.Run(); err != nil {
		return ErrEditor.With(slog.String("editor", editor)).Wrap(err)
	}

	return nil
}
