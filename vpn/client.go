package vpn

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/output"
	"github.com/yllada/windscribe-client/session"
)

// Options configures a Client. Zero fields take defaults in NewClient.
type Options struct {
	// Binary is the external client, looked up in PATH.
	Binary string
	// Launcher starts the external client. Defaults to a pseudo-terminal.
	Launcher session.Launcher
	// ReadTimeout bounds each wait for output.
	ReadTimeout time.Duration
	// CommandTimeout bounds a whole operation.
	CommandTimeout time.Duration
	// Phrases are the texts recognized in output.
	Phrases Phrases
	// EnvNames and Env locate credentials in the environment.
	EnvNames EnvNames
	Env      EnvLookup
	// Credentials is consulted after the environment. Optional.
	Credentials CredentialSource
	// Prober gates network commands. Optional.
	Prober Prober
	// Picker returns an index in [0, n). Used by Random.
	Picker func(n int) int
	Logger *common.AppLogger
}

// Client issues commands to the external VPN client. Each method spawns one
// process, waits for it and returns a typed result. Methods must not be
// called concurrently on the same machine since the external client keeps
// global state.
type Client struct {
	opts Options
	log  *common.AppLogger
}

// NewClient creates a client.
func NewClient(opts Options) *Client {
	if opts.Binary == "" {
		opts.Binary = common.DefaultBinary
	}
	if opts.Launcher == nil {
		opts.Launcher = session.PTYLauncher{}
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = common.ReadTimeout
	}
	if opts.CommandTimeout == 0 {
		opts.CommandTimeout = common.CommandTimeout
	}
	opts.Phrases = opts.Phrases.Merge(DefaultPhrases())
	if opts.EnvNames == (EnvNames{}) {
		opts.EnvNames = DefaultEnvNames()
	}
	if opts.Picker == nil {
		opts.Picker = rand.Intn
	}
	if opts.Logger == nil {
		opts.Logger = common.GetLogger()
	}

	return &Client{
		opts: opts,
		log:  opts.Logger.With("binary", opts.Binary),
	}
}

// Binary returns the external client's name or path.
func (c *Client) Binary() string {
	return c.opts.Binary
}

func (c *Client) commandLine(args ...string) string {
	return session.CommandLine(c.opts.Binary, args...)
}

func (c *Client) sessionOptions() []session.Option {
	return []session.Option{
		session.WithReadTimeout(c.opts.ReadTimeout),
		session.WithLogger(c.opts.Logger),
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.CommandTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.CommandTimeout)
	}
	return context.WithCancel(ctx)
}

// requireNetwork fails with common.ErrConnection when a prober is set and
// reports the network down.
func (c *Client) requireNetwork(ctx context.Context) error {
	if c.opts.Prober == nil {
		return nil
	}
	if !c.opts.Prober.Reachable(ctx) {
		return fmt.Errorf("%w: no resolver answered", common.ErrConnection)
	}
	return nil
}

// explainTimeout reports a timeout as a connection error when the network
// turns out to be down.
func (c *Client) explainTimeout(ctx context.Context, err error) error {
	if !errors.Is(err, common.ErrTimeout) || c.opts.Prober == nil {
		return err
	}
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), common.ProbeTimeout)
	defer cancel()
	if c.opts.Prober.Reachable(probeCtx) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrConnection, err)
}

// run executes one non-interactive command and returns its output.
func (c *Client) run(ctx context.Context, args ...string) ([]string, string, error) {
	line := c.commandLine(args...)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	lines, err := session.Run(ctx, c.opts.Launcher, line, c.sessionOptions()...)
	if err != nil {
		return lines, line, c.explainTimeout(ctx, err)
	}
	return lines, line, nil
}

// logOutput records drained output as the human-readable result.
func (c *Client) logOutput(lines []string) {
	for _, l := range output.NonEmpty(output.SanitizeLines(lines)) {
		c.log.Info("%s", l)
	}
}

// logDetail records output that may echo the account name. It stays at
// DEBUG.
func (c *Client) logDetail(lines []string) {
	for _, l := range output.NonEmpty(output.SanitizeLines(lines)) {
		c.log.Debug("%s", l)
	}
}

// Login authenticates. Missing credentials are filled from the
// environment and then from the configured credential source; if either is
// still missing no process is started. It returns false without sending
// anything when a session already exists.
func (c *Client) Login(ctx context.Context, creds Credentials) (bool, error) {
	creds, err := ResolveCredentials(creds, c.opts.Env, c.opts.EnvNames, c.opts.Credentials)
	if err != nil {
		return false, err
	}
	if err := c.requireNetwork(ctx); err != nil {
		return false, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	s, err := session.Start(ctx, c.opts.Launcher, c.commandLine("login"), c.sessionOptions()...)
	if err != nil {
		return false, err
	}
	defer s.Terminate()

	ok, err := c.authenticate(s, creds)
	if err != nil {
		return false, c.explainTimeout(ctx, err)
	}
	if ok {
		c.log.Info("Logged in")
		c.log.Debug("account: %s", creds.Username)
	}
	return ok, nil
}

// Logout ends the session. It returns false when nobody was logged in.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	lines, line, err := c.run(ctx, "logout")
	if err != nil {
		return false, err
	}
	c.logOutput(lines)

	if err := classify(line, lines, c.offline()); err != nil {
		return false, err
	}
	if err := classify(line, lines, c.notLoggedIn()); err != nil {
		return false, nil
	}
	return true, nil
}

// Locations lists the locations the account can connect to.
func (c *Client) Locations(ctx context.Context) ([]output.Location, error) {
	lines, line, err := c.run(ctx, "locations")
	if err != nil {
		return nil, err
	}
	if err := classify(line, lines, c.notLoggedIn(), c.offline()); err != nil {
		return nil, err
	}

	locations, err := output.ParseLocations(lines)
	if err != nil {
		return nil, withCommand(err, line)
	}
	c.log.Debug("%d locations", len(locations))
	return locations, nil
}

// Connect brings the tunnel up at the selected location.
func (c *Client) Connect(ctx context.Context, sel LocationSelector) error {
	if err := c.requireNetwork(ctx); err != nil {
		return err
	}

	label, err := c.resolveLabel(ctx, sel)
	if err != nil {
		return err
	}

	lines, line, err := c.run(ctx, "connect", label)
	if err != nil {
		return err
	}
	c.logOutput(lines)

	return classify(line, lines, c.notLoggedIn(), c.needsPro(), c.offline())
}

// Disconnect brings the tunnel down. Not being logged in is not an error.
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.requireNetwork(ctx); err != nil {
		return err
	}

	lines, line, err := c.run(ctx, "disconnect")
	if err != nil {
		return err
	}
	c.logOutput(lines)

	if err := classify(line, lines, c.notLoggedIn()); err != nil {
		c.log.Warn("disconnect: %v", err)
		return nil
	}
	return classify(line, lines, c.offline())
}

// Status queries the tunnel state. A fresh process is run for every call.
func (c *Client) Status(ctx context.Context) (output.ConnectionStatus, error) {
	if err := c.requireNetwork(ctx); err != nil {
		return output.ConnectionStatus{}, err
	}

	lines, line, err := c.run(ctx, "status")
	if err != nil {
		return output.ConnectionStatus{}, err
	}

	status, err := output.ClassifyStatus(lines, c.opts.Phrases.ServiceError)
	if err != nil {
		return status, withCommand(err, line)
	}
	c.log.Info("%s", status)
	return status, nil
}

// Account returns the account details.
func (c *Client) Account(ctx context.Context) (output.AccountInfo, error) {
	lines, line, err := c.run(ctx, "account")
	if err != nil {
		return output.AccountInfo{}, err
	}
	c.logOutput(lines)

	if err := classify(line, lines, c.notLoggedIn(), c.offline()); err != nil {
		return output.AccountInfo{}, err
	}

	info, err := output.ParseAccount(lines)
	if err != nil {
		return output.AccountInfo{}, withCommand(err, line)
	}
	return info, nil
}

var versionToken = regexp.MustCompile(`\bv?[0-9]+\.[0-9]+(?:\.[0-9]+)*(?:[-+][0-9A-Za-z.]+)?\b`)

// Version returns the external client's version. It works offline and
// without a session.
func (c *Client) Version(ctx context.Context) (string, error) {
	lines, line, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}

	clean := output.NonEmpty(output.SanitizeLines(lines))
	if len(clean) == 0 {
		return "", common.NewOutputError(common.ErrUnsupportedOutput, line, "no version printed", nil)
	}
	for _, l := range clean {
		if v := versionToken.FindString(l); v != "" {
			return v, nil
		}
	}
	return clean[0], nil
}
