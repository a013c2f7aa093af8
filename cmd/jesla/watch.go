package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFile re-runs a script every time it is saved. The watch is on the
// containing directory because many editors replace the file on save,
// which drops a watch placed on the file itself.
func watchFile(filename string) error {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s (Ctrl+C to stop)\n", filename)
	runWatched(filename)

	// Debounce duration - wait for rapid changes to settle
	const debounce = 100 * time.Millisecond
	var lastChange time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != absPath {
				continue
			}
			if time.Since(lastChange) < debounce {
				continue
			}
			lastChange = time.Now()

			fmt.Fprintf(os.Stderr, "\n%s changed, re-running\n", filename)
			runWatched(filename)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

// runWatched runs the script and reports the exit status without exiting
func runWatched(filename string) {
	code := executeFile(filename)
	if code != exitOK {
		fmt.Fprintf(os.Stderr, "exit status %d\n", code)
	}
}
