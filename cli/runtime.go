package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/config"
	"github.com/yllada/windscribe-client/keyring"
	"github.com/yllada/windscribe-client/output"
	"github.com/yllada/windscribe-client/session"
	"github.com/yllada/windscribe-client/ui"
	"github.com/yllada/windscribe-client/vpn"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	logLevel   string
	binary     string
	noNotify   bool
}

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	cfg      *config.Config
	client   *vpn.Client
	store    *keyring.Store
	notifier *ui.Notifier
	// pick chooses a location interactively.
	pick pickFunc
}

type builder func(opts rootOptions) (*runtime, error)

type pickFunc func(ctx context.Context, locations []output.Location, opts ui.PickOptions) (output.Location, error)

// deps is shared by every subcommand of one root command.
type deps struct {
	opts   rootOptions
	build  builder
	prompt prompter
}

func newDeps(build builder, prompt prompter) *deps {
	return &deps{build: build, prompt: prompt}
}

// with builds the runtime, runs fn and releases the runtime.
func (d *deps) with(fn func(rt *runtime) error) error {
	rt, err := d.build(d.opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.notifier.Close(); err != nil {
			common.LogDebug("Closing session bus: %v", err)
		}
	}()
	return fn(rt)
}

// loadRuntime reads the configuration and wires the client to the real
// external binary.
func loadRuntime(opts rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.binary != "" {
		cfg.Binary = opts.binary
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noNotify {
		cfg.Notifications = false
	}

	level, err := common.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := common.InitLogger(common.LogConfig{Level: level, FilePath: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize file logging: %v\n", err)
	}

	rt := &runtime{cfg: cfg, store: keyring.Default(), pick: ui.Pick}
	rt.client = vpn.NewClient(clientOptions(cfg, session.NewLauncher(cfg.Launcher, nil), rt.store))

	if cfg.Notifications {
		n, err := ui.NewNotifier()
		if err != nil {
			common.LogDebug("Notifications disabled: %v", err)
		} else {
			rt.notifier = n
		}
	}
	return rt, nil
}

// clientOptions maps the configuration onto vpn.Options.
func clientOptions(cfg *config.Config, launcher session.Launcher, store *keyring.Store) vpn.Options {
	opts := vpn.Options{
		Binary:         cfg.Binary,
		Launcher:       launcher,
		ReadTimeout:    cfg.ReadTimeout,
		CommandTimeout: cfg.CommandTimeout,
		Phrases:        cfg.Phrases,
		EnvNames:       cfg.EnvNames(),
		Env:            os.LookupEnv,
		Logger:         common.GetLogger(),
	}
	if cfg.Credentials.UseKeyring && store != nil {
		opts.Credentials = store
	}
	if cfg.Reachability.Enabled {
		opts.Prober = vpn.NewDNSProber(cfg.ProbeConfig())
	}
	return opts
}
