// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"flint/internal/config"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
)

// settle is how long a burst of file events has to be quiet before a run.
const settle = 200 * time.Millisecond

// watch verifies paths once, then again after every change to one of them until
// ctx is cancelled. Failed runs are printed and the watch goes on.
func watch(ctx context.Context, out io.Writer, cfg *config.Config, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	defer w.Close()

	// Editors save by renaming over the file, so the directories are watched.
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	run := func() {
		if err := verify(ctx, out, cfg, paths); err != nil && !stderrors.Is(err, errNotVerified) {
			fmt.Fprintln(out, color.RedString("%s", err))
		}
		fmt.Fprintln(out, color.New(color.Faint).Sprint("Watching for changes..."))
	}
	run()

	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch: %s", err)
		case <-timer.C:
			run()
		}
	}
}
