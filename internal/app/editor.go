package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither the config nor $EDITOR name one.
var ErrNoEditor = errors.New("no editor configured (set prr.editor or $EDITOR)")

// Edit opens the review file for ref in the configured editor.
func (a *App) Edit(ctx context.Context, ref PRRef) error {
	r, err := a.existing(ref)
	if err != nil {
		return err
	}
	editor := a.cfg.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return ErrNoEditor
	}
	a.log.Debug("opening editor", "editor", editor, "path", r.Path())
	return a.runEditor(ctx, editor, r.Path())
}

// runEditor runs editor on path attached to the terminal. editor may carry
// arguments, as in "code --wait".
func runEditor(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running editor %q: %w", editor, err)
	}
	return nil
}
