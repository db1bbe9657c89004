package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/flisky/dioxus/cmd/dioxus/internal/config"
	"github.com/flisky/dioxus/cmd/dioxus/internal/diag"
	"github.com/flisky/dioxus/internal/cache"
	"github.com/flisky/dioxus/pkg/autofmt"
)

const rsxExt = ".rsx"

func newFmtCommand() *cobra.Command {
	var (
		write      bool
		check      bool
		watch      bool
		indent     int
		initConfig bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [files or directories...]",
		Short: "Format rsx source files",
		Long: `Format .rsx files into the canonical style: one node or attribute
per line, four-space indentation, trailing commas.

With no arguments the working tree is searched for .rsx files. A single
"-" argument formats stdin to stdout.

Examples:
  dioxus fmt view.rsx           # Print the formatted file to stdout
  dioxus fmt -w .               # Rewrite all .rsx files in place
  dioxus fmt --check            # List unformatted files, exit nonzero
  dioxus fmt -w --watch src/    # Keep files formatted as they change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if initConfig {
				if err := config.Save(config.DefaultConfig(), "."); err != nil {
					return fmt.Errorf("failed to write %s: %w", config.FileName, err)
				}
				diag.Successf("✅ Wrote %s", config.FileName)
				return nil
			}

			cfg, err := config.Load(".")
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", config.FileName, err)
			}

			width := cfg.Fmt.IndentWidth
			if cmd.Flags().Changed("indent") {
				width = indent
			}

			if len(args) == 1 && args[0] == "-" {
				return formatStdin(width)
			}

			runner := newFmtRunner(width, write, check, cfg.Fmt.Exclude)
			defer runner.close()

			files, err := runner.resolveTargets(args)
			if err != nil {
				return err
			}
			if len(files) == 0 && !watch {
				diag.Warnf("no %s files found", rsxExt)
				return nil
			}

			unformatted, failed := runner.run(files)

			if check && len(unformatted) > 0 {
				return fmt.Errorf("%d file(s) are not formatted", len(unformatted))
			}
			if failed > 0 && !watch {
				return fmt.Errorf("%d file(s) failed to format", failed)
			}

			if watch {
				return runner.watch(args)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite files in place instead of printing to stdout")
	cmd.Flags().BoolVar(&check, "check", false, "List files whose formatting differs and exit nonzero")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch for file changes and reformat")
	cmd.Flags().IntVar(&indent, "indent", autofmt.DefaultIndentWidth, "Spaces per indentation level")
	cmd.Flags().BoolVar(&initConfig, "init", false, "Write a default "+config.FileName+" and exit")

	return cmd
}

// formatStdin formats a single block from stdin to stdout.
func formatStdin(width int) error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	f := &autofmt.Formatter{IndentWidth: width}
	formatted, err := f.FormatBlock(string(source))
	if err != nil {
		return err
	}

	_, err = io.WriteString(os.Stdout, formatted)
	return err
}

// fmtRunner formats a set of files with one shared formatter and cache.
type fmtRunner struct {
	formatter *autofmt.Formatter
	cache     *cache.Cache
	width     int
	write     bool
	check     bool
	exclude   []string
}

func newFmtRunner(width int, write, check bool, exclude []string) *fmtRunner {
	cachePath, err := cache.DefaultPath()
	if err != nil {
		cachePath = "" // memory-only
	}

	return &fmtRunner{
		formatter: &autofmt.Formatter{IndentWidth: width},
		cache:     cache.New(cachePath),
		width:     width,
		write:     write,
		check:     check,
		exclude:   exclude,
	}
}

func (r *fmtRunner) close() {
	if err := r.cache.Save(); err != nil {
		diag.Warnf("⚠️  Failed to save format cache: %v", err)
	}
}

// resolveTargets expands the argument list into .rsx file paths. With no
// arguments the working directory is walked.
func (r *fmtRunner) resolveTargets(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if filepath.Ext(arg) != rsxExt {
				return nil, fmt.Errorf("%s: not an %s file", arg, rsxExt)
			}
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			if !info.IsDir() && filepath.Ext(path) == rsxExt && !r.excluded(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// skipDir filters directories never worth descending into.
func skipDir(name string) bool {
	return (strings.HasPrefix(name, ".") && name != ".") || name == "node_modules"
}

// excluded applies the config exclude globs against the slash path and
// the base name.
func (r *fmtRunner) excluded(path string) bool {
	slash := filepath.ToSlash(path)
	for _, pattern := range r.exclude {
		if ok, _ := filepath.Match(pattern, slash); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// run formats every file and returns the unformatted paths plus the
// number of failures.
func (r *fmtRunner) run(files []string) (unformatted []string, failed int) {
	start := time.Now()

	for _, path := range files {
		changed, err := r.formatFile(path)
		if err != nil {
			diag.Errorf("❌ %s: %v", path, err)
			failed++
			continue
		}
		if changed {
			unformatted = append(unformatted, path)
		}
	}

	if r.write || r.check {
		stats := r.cache.Stats()
		diag.Mutedf("📊 %d file(s) in %v, %d changed, %d skipped via cache",
			len(files), time.Since(start).Round(time.Millisecond), len(unformatted), stats.Hits)
	}
	return unformatted, failed
}

// formatFile formats one file according to the runner mode. It reports
// whether the content differed from the canonical form.
func (r *fmtRunner) formatFile(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	key := cache.Key(content, r.width)
	if r.cache.Clean(key) {
		return false, nil
	}

	formatted, err := r.formatter.FormatBlock(string(content))
	if err != nil {
		return false, err
	}

	if formatted == string(content) {
		r.cache.MarkClean(key)
		return false, nil
	}

	switch {
	case r.write:
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return true, err
		}
		r.cache.MarkClean(cache.Key([]byte(formatted), r.width))
		diag.Successf("✅ Formatted %s", diag.Path(path))
	case r.check:
		fmt.Println(path)
	default:
		if _, err := io.WriteString(os.Stdout, formatted); err != nil {
			return true, err
		}
	}
	return true, nil
}

// watch reformats files as they change until interrupted. Events are
// debounced so editor save bursts produce one pass.
func (r *fmtRunner) watch(args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			// Watch the containing directory; events carry the file path.
			if err := watcher.Add(filepath.Dir(root)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			continue
		}
		if err := addWatchDirs(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	diag.Mutedf("👀 Watching for changes... (Press Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pending []string
	var mu sync.Mutex

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New directories need watching too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					_ = addWatchDirs(watcher, event.Name)
					continue
				}
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != rsxExt || r.excluded(event.Name) {
				continue
			}

			mu.Lock()
			pending = append(pending, event.Name)
			mu.Unlock()

			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			diag.Warnf("⚠️  Watcher error: %v", err)

		case <-debounce.C:
			mu.Lock()
			batch := dedupe(pending)
			pending = nil
			mu.Unlock()

			for _, path := range batch {
				if _, err := r.formatFile(path); err != nil {
					diag.Errorf("❌ %s: %v", path, err)
				}
			}

		case <-sigChan:
			diag.Mutedf("🛑 Stopping watcher")
			return nil
		}
	}
}

// addWatchDirs registers root and every non-skipped subdirectory.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
