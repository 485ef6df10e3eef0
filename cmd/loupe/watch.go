package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch opens path, prints the selection and repeats both whenever the file is
// written. A failed reload keeps the previous document and keeps watching.
func (a *app) watch(ctx context.Context, path, jsonPath string) error {
	if _, err := a.open(path); err != nil {
		return err
	}
	if err := a.printSelection(jsonPath); err != nil {
		fmt.Fprintln(a.stdout, a.style.failure(err.Error()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files by rename, so watch the directory and filter.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}
	a.logger.Info("watching", "path", target, "select", jsonPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			a.reload(target, jsonPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("file watcher error", "path", target, "err", err)
		}
	}
}

// reload re-opens path; the inspector keeps the previous document on failure.
func (a *app) reload(path, jsonPath string) {
	if _, err := a.open(path); err != nil {
		fmt.Fprintln(a.stdout, a.style.failure("reload failed, keeping previous document: "+err.Error()))
		return
	}
	fmt.Fprintln(a.stdout, a.style.heading("reloaded "+path))
	if err := a.printSelection(jsonPath); err != nil {
		fmt.Fprintln(a.stdout, a.style.failure(err.Error()))
	}
}
