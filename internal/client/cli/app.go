package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/backup"
	"github.com/dmitrijs2005/wmsclient/internal/client/config"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/client/session"
	"github.com/dmitrijs2005/wmsclient/internal/filex"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/spf13/cobra"
)

const appName = "wms"

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	envFile    string
	apiURL     string
	store      string
	storePath  string
	logLevel   string
	logFormat  string
	timeout    time.Duration
}

type App struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	opts    globalOptions
	cfg     *config.Config
	log     logging.Logger
	session *session.Session

	readPassword  func() ([]byte, error)
	newSession    func(ctx context.Context, cfg *config.Config, log logging.Logger) (*session.Session, error)
	newObjectAPI  func(ctx context.Context, cfg config.Backup) (backup.ObjectAPI, error)
	defaultConfig func() string
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	a := &App{
		in:         bufio.NewReader(in),
		out:        out,
		errOut:     errOut,
		newSession: session.New,
		newObjectAPI: func(ctx context.Context, cfg config.Backup) (backup.ObjectAPI, error) {
			return backup.NewS3Client(ctx, cfg)
		},
		defaultConfig: func() string { return filex.DefaultDataPath(appName, "config.toml") },
	}
	a.readPassword = func() ([]byte, error) { return GetPassword(a.errOut) }
	return a
}

// Execute runs the command line given in args (without the program name).
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	return err
}

// setup resolves the configuration and opens the session.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.StoreType == kv.TypeSQLite {
		if err := filex.EnsureParentDir(cfg.StorePath); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.log = logging.NewWithWriter(a.errOut, cfg.LogLevel, cfg.LogFormat)

	s, err := a.newSession(cmd.Context(), cfg, a.log)
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

func (a *App) teardown() error {
	if a.session == nil {
		return nil
	}
	err := a.session.Close()
	a.session = nil
	return err
}

// loadConfig layers defaults, the TOML file, the environment and the flags.
func (a *App) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file := a.opts.configFile
	if file == "" {
		if def := a.defaultConfig(); def != "" {
			if _, err := os.Stat(def); err == nil {
				file = def
			}
		}
	}

	cfg, err := config.Load(config.Sources{File: file, EnvFile: a.opts.envFile})
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.opts.apiURL
	}
	if flags.Changed("store") {
		cfg.StoreType = strings.ToLower(a.opts.store)
	}
	if flags.Changed("store-path") {
		cfg.StorePath = a.opts.storePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(a.opts.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(a.opts.logFormat)
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) notef(format string, args ...any) {
	fmt.Fprintf(a.errOut, format+"\n", args...)
}
