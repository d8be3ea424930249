// cmd/themetags/main.go
//
// Resolve one theme tag from the shell.
//
//	themetags [flags] <tag> [key=value ...]
//
//	themetags --public ./public js src=app tag=true version=true
//	themetags css src=print cache_bust=1
//	themetags --theme-dir ./themes/redwood output src=partials/footer.html
//
// The tag may be given as `theme:js` or `js`.  Output goes to stdout with a
// trailing newline; diagnostics go to stderr.
package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/yanizio/themetags/internal/logger"
	"github.com/yanizio/themetags/internal/theme"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitUsage   = 1
)

// options holds the CLI flags.
type options struct {
	public   string
	themeDir string
	root     string
	verbose  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, so tests can drive it.
func run(argv []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("themetags", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.public, "public", "public", "public directory holding assets and manifests")
	fs.StringVar(&opts.themeDir, "theme-dir", "", "theme directory read by the output tag (defaults to --public)")
	fs.StringVar(&opts.root, "root", "", "theme root URL prefix, e.g. /themes/redwood")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log manifest and stat misses to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: themetags [flags] <tag> [key=value ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(argv); err != nil {
		return ExitUsage
	}

	inv, err := parseArgs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "themetags: %v\n", err)
		fs.Usage()
		return ExitUsage
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log, err := logger.Console(stderr, level)
	if err != nil {
		fmt.Fprintf(stderr, "themetags: %v\n", err)
		return ExitUsage
	}

	public, err := theme.NewDirStore(opts.public)
	if err != nil {
		fmt.Fprintf(stderr, "themetags: public dir: %v\n", err)
		return ExitUsage
	}
	ropts := []theme.Option{theme.WithRoot(opts.root), theme.WithLogger(log)}
	if opts.themeDir != "" {
		ts, err := theme.NewDirStore(opts.themeDir)
		if err != nil {
			fmt.Fprintf(stderr, "themetags: theme dir: %v\n", err)
			return ExitUsage
		}
		ropts = append(ropts, theme.WithThemeStore(ts))
	}

	res := theme.NewResolver(public, ropts...)
	fmt.Fprintln(stdout, res.Resolve(inv.kind, inv.params))
	return ExitSuccess
}
