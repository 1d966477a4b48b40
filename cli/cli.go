// Package cli is the agroverse command line: the marketplace screens as
// subcommands, plus `serve` for the advisory proxy.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"agroverse/advisory"
	"agroverse/auth"
	"agroverse/config"
	"agroverse/errx"
	"agroverse/logx"
	"agroverse/remote"
)

// Options wires an App. Store defaults to the FileStore at cfg.StorePath.
type Options struct {
	Config *config.Config
	Store  auth.Store
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// App holds the session and the two remote clients shared by every command.
type App struct {
	cfg     *config.Config
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	session *auth.Session
	api     *remote.Client
	kmitra  *advisory.Client

	commands map[string]command
}

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

// usageError exits with status 2. An empty message means the flag package
// already printed the problem.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("cli: nil config")
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	cfg := opts.Config
	store := opts.Store
	if store == nil {
		fs, err := auth.NewFileStore(cfg.StorePath, cfg.StorePassphrase)
		if err != nil {
			return nil, err
		}
		store = fs
	}

	a := &App{
		cfg:     cfg,
		in:      bufio.NewReader(opts.Stdin),
		out:     opts.Stdout,
		errOut:  opts.Stderr,
		session: auth.NewSession(store, cfg.UserID),
	}
	a.session.OnInvalidate(func(reason string) {
		fmt.Fprintf(a.errOut, "Session expired: %s\n", reason)
	})

	var err error
	a.api, err = remote.New(remote.Options{
		BaseURL: cfg.APIBaseURL,
		Session: a.session,
		Timeout: cfg.HTTPTimeout,
		Retry:   cfg.Retry,
	})
	if err != nil {
		return nil, err
	}
	proxy, err := remote.New(remote.Options{
		BaseURL: cfg.AdvisoryURL,
		Session: a.session,
		Timeout: cfg.HTTPTimeout,
		Retry:   cfg.Retry,
	})
	if err != nil {
		return nil, err
	}
	a.kmitra = advisory.NewClient(proxy)

	a.commands = map[string]command{
		"login":     {"log in and remember the session", a.login},
		"register":  {"create an account", a.register},
		"logout":    {"forget the stored session", a.logout},
		"whoami":    {"show the logged-in user", a.whoami},
		"products":  {"AgriKart: list, add, request, dashboard, approve, contact", a.products},
		"equipment": {"AgroRent: list, add, book, dashboard, approve, contact", a.equipment},
		"store":     {"AgroMart: interactive shop with cart and checkout", a.shop},
		"orders":    {"order history, optionally writing PDF receipts", a.orders},
		"advisory":  {"KrishiMitra: advice, calendar, prices, weather, news", a.advisory},
		"serve":     {"run the advisory proxy", a.serve},
	}
	return a, nil
}

// Run executes one command line and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("agroverse", flag.ContinueOnError)
	global.SetOutput(a.errOut)
	verbose := global.Bool("v", false, "verbose logging")
	global.Usage = a.usage
	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	// The proxy logs every request; screens stay quiet unless asked.
	quiet := !*verbose && (len(rest) == 0 || rest[0] != "serve")
	logx.Init(logx.LoggerOpts{Environment: a.cfg.Env, Output: a.errOut, Quiet: quiet})

	if len(rest) == 0 {
		a.usage()
		return 2
	}
	cmd, ok := a.commands[rest[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n", rest[0])
		a.usage()
		return 2
	}
	return a.exit(cmd.run(ctx, rest[1:]))
}

func (a *App) exit(err error) int {
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		if ue.msg != "" {
			fmt.Fprintln(a.errOut, ue.msg)
		}
		return 2
	}
	logx.Debug().Err(err).Msg("command failed")
	fmt.Fprintln(a.errOut, errx.Message(err))
	return 1
}

func (a *App) usage() {
	fmt.Fprintln(a.errOut, "usage: agroverse [-v] <command> [args]")
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %-10s %s\n", name, a.commands[name].summary)
	}
}

func (a *App) flags(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "usage: agroverse %s %s\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usageError{}
	}
	return nil
}

// subcommand splits "<verb> [flags]" and finds verb in table.
func subcommand(group string, args []string, table map[string]func(context.Context, []string) error) (func(context.Context, []string) error, []string, error) {
	verbs := make([]string, 0, len(table))
	for v := range table {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	help := fmt.Sprintf("usage: agroverse %s {%s}", group, strings.Join(verbs, ","))
	if len(args) == 0 {
		return nil, nil, usageError{help}
	}
	run, ok := table[args[0]]
	if !ok {
		return nil, nil, usageError{fmt.Sprintf("unknown %s command %q\n%s", group, args[0], help)}
	}
	return run, args[1:], nil
}

// prompt writes label and reads one trimmed line from stdin.
func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}
