package vpn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/output"
	"github.com/yllada/windscribe-client/session/sessiontest"
)

const locationsHeader = "Location          Short Name  City Name         Label"

// fakeProber answers from a list of results; the last one repeats.
type fakeProber struct {
	mu      sync.Mutex
	results []bool
	calls   int
}

func (p *fakeProber) Reachable(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	return p.results[i]
}

func newTestClient(l *sessiontest.Launcher, mutate ...func(*Options)) *Client {
	opts := Options{
		Launcher:    l,
		ReadTimeout: 2 * time.Second,
		Env:         envOf(nil),
		Logger:      common.NewLogger(io.Discard, common.LevelError),
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewClient(opts)
}

func loginScript(username, password string, after ...string) []sessiontest.Step {
	return []sessiontest.Step{
		sessiontest.Out("Windscribe Username: "),
		sessiontest.In(username),
		sessiontest.Out("Windscribe Password: "),
		sessiontest.In(password),
		sessiontest.Lines(append([]string{""}, after...)...),
	}
}

func TestLogin_SubmitsCredentialsInOrder(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"login"}, loginScript("jdoe", "secret", "Logged In")...)
	c := newTestClient(l)

	ok, err := c.Login(context.Background(), Credentials{Username: "jdoe", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !ok {
		t.Error("Login() = false, want true")
	}

	p := l.Processes()[0]
	if m := p.Mismatches(); len(m) > 0 {
		t.Errorf("script mismatches: %v", m)
	}
	if got := p.Inputs(); !reflect.DeepEqual(got, []string{"jdoe", "secret"}) {
		t.Errorf("inputs = %q, want username then password", got)
	}
	if !p.Closed() {
		t.Error("login session was not terminated")
	}
}

func TestLogin_FromEnvironment(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"login"}, loginScript("env-user", "env-pw", "Logged In")...)
	c := newTestClient(l, func(o *Options) {
		o.Env = envOf(map[string]string{"WINDSCRIBE_USER": "env-user", "WINDSCRIBE_PW": "env-pw"})
	})

	if ok, err := c.Login(context.Background(), Credentials{}); err != nil || !ok {
		t.Fatalf("Login() = %v, %v, want true, nil", ok, err)
	}
	if m := l.Processes()[0].Mismatches(); len(m) > 0 {
		t.Errorf("script mismatches: %v", m)
	}
}

func TestLogin_AlreadyLoggedIn(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"login"}, sessiontest.Lines("Already Logged in"))
	c := newTestClient(l)

	ok, err := c.Login(context.Background(), Credentials{Username: "jdoe", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if ok {
		t.Error("Login() = true, want false when already logged in")
	}
	if got := l.Processes()[0].Inputs(); len(got) != 0 {
		t.Errorf("inputs = %q, want nothing sent", got)
	}
}

func TestLogin_MissingCredentialsDoesNotSpawn(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		field string
	}{
		{"no username", Credentials{}, "username"},
		{"no password", Credentials{Username: "test"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"login"}, sessiontest.Hang())
			c := newTestClient(l)

			_, err := c.Login(context.Background(), tt.creds)
			var mce *common.MissingCredentialError
			if !errors.As(err, &mce) {
				t.Fatalf("Login() error = %v, want *common.MissingCredentialError", err)
			}
			if mce.Field != tt.field {
				t.Errorf("Field = %q, want %q", mce.Field, tt.field)
			}
			if calls := l.Calls(); len(calls) != 0 {
				t.Errorf("process started: %q", calls)
			}
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	creds := Credentials{Username: "test", Password: "test"}

	tests := []struct {
		name  string
		steps []sessiontest.Step
		want  error
	}{
		{
			name:  "rejected",
			steps: loginScript("test", "test", "Could not log in with provided credentials"),
			want:  common.ErrInvalidCredentials,
		},
		{
			name:  "network failure after password",
			steps: loginScript("test", "test", "Failed to connect to the API"),
			want:  common.ErrConnection,
		},
		{
			name:  "network failure instead of prompt",
			steps: []sessiontest.Step{sessiontest.Lines("No internet connectivity")},
			want:  common.ErrConnection,
		},
		{
			name:  "unrecognized output",
			steps: []sessiontest.Step{sessiontest.Lines("Segmentation fault")},
			want:  common.ErrUnrecognizedProtocol,
		},
		{
			name: "no password prompt",
			steps: []sessiontest.Step{
				sessiontest.Out("Windscribe Username: "),
				sessiontest.In("test"),
				sessiontest.Lines("", "Something else"),
			},
			want: common.ErrUnrecognizedProtocol,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"login"}, tt.steps...)
			c := newTestClient(l)

			ok, err := c.Login(context.Background(), creds)
			if !errors.Is(err, tt.want) {
				t.Errorf("Login() error = %v, want %v", err, tt.want)
			}
			if ok {
				t.Error("Login() = true on failure")
			}
			if !l.Processes()[0].Closed() {
				t.Error("session not terminated on failure")
			}
		})
	}
}

func TestLogin_AccountNameStaysAtDebug(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"login"}, loginScript("jdoe", "secret", "jdoe", "Logged In")...)
	var buf bytes.Buffer
	c := newTestClient(l, func(o *Options) { o.Logger = common.NewLogger(&buf, common.LevelInfo) })

	ok, err := c.Login(context.Background(), Credentials{Username: "jdoe", Password: "secret"})
	if err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}

	logged := buf.String()
	if !strings.Contains(logged, "Logged in") {
		t.Errorf("log = %q, want a login message", logged)
	}
	if strings.Contains(logged, "jdoe") || strings.Contains(logged, "secret") {
		t.Errorf("log = %q, account details at INFO", logged)
	}
}

func TestLogin_OfflineDoesNotSpawn(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"login"}, sessiontest.Hang())
	c := newTestClient(l, func(o *Options) { o.Prober = &fakeProber{results: []bool{false}} })

	_, err := c.Login(context.Background(), Credentials{Username: "u", Password: "p"})
	if !errors.Is(err, common.ErrConnection) {
		t.Errorf("Login() error = %v, want ErrConnection", err)
	}
	if len(l.Calls()) != 0 {
		t.Error("process started while offline")
	}
}

func TestLocationsAndConnect(t *testing.T) {
	l := sessiontest.NewLauncher().
		Handle([]string{"locations"}, sessiontest.Lines(
			locationsHeader,
			"Canada            CA          Toronto           CA Toronto",
			"US East           US          New York          NY Empire",
		)).
		Handle([]string{"connect", "CA Toronto"}, sessiontest.Lines("Connecting to Canada Toronto", "Connected to CA Toronto"))
	c := newTestClient(l)
	ctx := context.Background()

	locations, err := c.Locations(ctx)
	if err != nil {
		t.Fatalf("Locations() error = %v", err)
	}
	want := output.Location{Name: "Canada", Abbreviation: "CA", City: "Toronto", Label: "CA Toronto"}
	if len(locations) != 2 || locations[0] != want {
		t.Fatalf("Locations() = %+v, want first %+v", locations, want)
	}

	if err := c.Connect(ctx, ByLocation(locations[0])); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	calls := l.Calls()
	last := calls[len(calls)-1]
	if !reflect.DeepEqual(last, []string{"windscribe", "connect", "CA Toronto"}) {
		t.Errorf("connect argv = %q", last)
	}
	if got := c.commandLine("connect", locations[0].Label); got != `windscribe connect CA\ Toronto` {
		t.Errorf("connect command line = %q", got)
	}
}

func TestConnect_Selectors(t *testing.T) {
	l := sessiontest.NewLauncher().
		Handle([]string{"locations"}, sessiontest.Lines(
			locationsHeader,
			"Canada            CA          Toronto           CA Toronto",
			"US East           US          New York          NY Empire",
			"Japan             JP          Tokyo             Sakura",
		)).
		Handle([]string{"connect", "best"}, sessiontest.Lines("Connected")).
		Handle([]string{"connect", "NY Empire"}, sessiontest.Lines("Connected")).
		Handle([]string{"connect", "Sakura"}, sessiontest.Lines("Connected"))

	picks := []int{}
	c := newTestClient(l, func(o *Options) {
		o.Picker = func(n int) int {
			picks = append(picks, n)
			return 1
		}
	})

	tests := []struct {
		sel  LocationSelector
		want []string
	}{
		{Best(), []string{"windscribe", "connect", "best"}},
		{LocationSelector{}, []string{"windscribe", "connect", "best"}},
		{Random(), []string{"windscribe", "connect", "NY Empire"}},
		{ByLabel("Sakura"), []string{"windscribe", "connect", "Sakura"}},
	}

	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			if err := c.Connect(context.Background(), tt.sel); err != nil {
				t.Fatalf("Connect(%s) error = %v", tt.sel, err)
			}
			calls := l.Calls()
			if last := calls[len(calls)-1]; !reflect.DeepEqual(last, tt.want) {
				t.Errorf("Connect(%s) argv = %q, want %q", tt.sel, last, tt.want)
			}
		})
	}

	if !reflect.DeepEqual(picks, []int{3}) {
		t.Errorf("picker called with %v, want [3]", picks)
	}
}

func TestConnect_EmptyLabel(t *testing.T) {
	l := sessiontest.NewLauncher()
	c := newTestClient(l)

	if err := c.Connect(context.Background(), ByLabel("  ")); err == nil {
		t.Error("Connect() with empty label succeeded")
	}
	if len(l.Calls()) != 0 {
		t.Error("process started for empty label")
	}
}

func TestConnect_Failures(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"not logged in", []string{"Not logged in. Please login to use Windscribe"}, common.ErrNotLoggedIn},
		{"pro location", []string{"Connecting to WINDFLIX US", "This location requires a Pro account"}, common.ErrProAccountRequired},
		{"offline", []string{"Failed to connect to the API"}, common.ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"connect", "WINDFLIX US"}, sessiontest.Lines(tt.lines...))
			c := newTestClient(l)

			err := c.Connect(context.Background(), ByLabel("WINDFLIX US"))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Connect() error = %v, want %v", err, tt.want)
			}
			var oe *common.OutputError
			if !errors.As(err, &oe) || oe.Command != `windscribe connect WINDFLIX\ US` {
				t.Errorf("error command = %v", err)
			}
		})
	}
}

func TestRandomConnect_NotLoggedIn(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"locations"}, sessiontest.Lines("Please login to use Windscribe"))
	c := newTestClient(l)

	if err := c.Connect(context.Background(), Random()); !errors.Is(err, common.ErrNotLoggedIn) {
		t.Errorf("Connect(Random) error = %v, want ErrNotLoggedIn", err)
	}
	if n := len(l.Calls()); n != 1 {
		t.Errorf("%d processes started, want only locations", n)
	}
}

func TestLocations_SchemaChange(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"locations"}, sessiontest.Lines(
		"Location  City Name  Short Name  Label",
		"Canada  Toronto  CA  CA Toronto",
	))
	c := newTestClient(l)

	_, err := c.Locations(context.Background())
	if !errors.Is(err, common.ErrSchema) {
		t.Fatalf("Locations() error = %v, want ErrSchema", err)
	}
	var oe *common.OutputError
	if errors.As(err, &oe) && oe.Command != "windscribe locations" {
		t.Errorf("OutputError.Command = %q", oe.Command)
	}
}

func TestDisconnect(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"connected", []string{"DISCONNECTED"}, nil},
		{"not logged in", []string{"Not logged in"}, nil},
		{"offline", []string{"No internet connectivity"}, common.ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"disconnect"}, sessiontest.Lines(tt.lines...))
			c := newTestClient(l)

			err := c.Disconnect(context.Background())
			if tt.want == nil && err != nil {
				t.Errorf("Disconnect() error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Disconnect() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		state   output.StatusState
		ip      string
		wantErr error
	}{
		{
			name:  "not connected",
			lines: []string{"Windscribe CLI client v1.4", "*Service communication error*"},
			state: output.StatusNotConnected,
		},
		{
			name:  "connected",
			lines: []string{"Windscribe CLI client v1.4", "CONNECTED -- 123.45.67.89"},
			state: output.StatusConnected,
			ip:    "123.45.67.89",
		},
		{
			name:    "single line",
			lines:   []string{"single line"},
			state:   output.StatusUnknown,
			wantErr: common.ErrUnsupportedOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"status"}, sessiontest.Lines(tt.lines...))
			c := newTestClient(l)

			got, err := c.Status(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Status() error = %v, want %v", err, tt.wantErr)
			}
			if got.State != tt.state || got.IP != tt.ip {
				t.Errorf("Status() = %+v, want state %v ip %q", got, tt.state, tt.ip)
			}
		})
	}
}

func TestStatus_FreshProcessEachCall(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"status"}, sessiontest.Lines("v1", "service communication error"))
	c := newTestClient(l)

	for i := 0; i < 3; i++ {
		if _, err := c.Status(context.Background()); err != nil {
			t.Fatalf("Status() error = %v", err)
		}
	}
	if n := len(l.Calls()); n != 3 {
		t.Errorf("%d processes started, want 3", n)
	}
}

func TestTimeoutClassification(t *testing.T) {
	tests := []struct {
		name        string
		probe       []bool
		wantConnErr bool
	}{
		{"network up is a timeout", []bool{true, true}, false},
		{"network gone is a connection error", []bool{true, false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"status"}, sessiontest.Hang())
			prober := &fakeProber{results: tt.probe}
			c := newTestClient(l, func(o *Options) {
				o.ReadTimeout = 50 * time.Millisecond
				o.Prober = prober
			})

			_, err := c.Status(context.Background())
			if !errors.Is(err, common.ErrTimeout) {
				t.Fatalf("Status() error = %v, want ErrTimeout in chain", err)
			}
			if got := errors.Is(err, common.ErrConnection); got != tt.wantConnErr {
				t.Errorf("errors.Is(err, ErrConnection) = %v, want %v", got, tt.wantConnErr)
			}
			if prober.calls != 2 {
				t.Errorf("prober called %d times, want 2", prober.calls)
			}
			if !l.Processes()[0].Killed() {
				t.Error("hung process was not killed")
			}
		})
	}
}

func TestSpawnFailure(t *testing.T) {
	c := newTestClient(sessiontest.NewLauncher())

	if _, err := c.Status(context.Background()); !errors.Is(err, common.ErrSpawn) {
		t.Errorf("Status() error = %v, want ErrSpawn", err)
	}
}

func TestAccount(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"account"}, sessiontest.Lines(
		"------- My Account -------",
		"Username: jdoe",
		"Data Usage: 1.5 GB / 10 GB",
		"Plan: Free",
	))
	c := newTestClient(l)

	info, err := c.Account(context.Background())
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	if info.Username != "jdoe" || info.Plan != "Free" || info.DataLimit != "10 GB" {
		t.Errorf("Account() = %+v", info)
	}
}

func TestAccount_NotLoggedIn(t *testing.T) {
	l := sessiontest.NewLauncher().Handle([]string{"account"}, sessiontest.Lines("Not logged in"))
	c := newTestClient(l)

	if _, err := c.Account(context.Background()); !errors.Is(err, common.ErrNotLoggedIn) {
		t.Errorf("Account() error = %v, want ErrNotLoggedIn", err)
	}
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    bool
		wantErr error
	}{
		{"logged in", []string{"Logged Out"}, true, nil},
		{"nobody logged in", []string{"Not logged in"}, false, nil},
		{"offline", []string{"Windscribe CLI v2", "No internet connectivity"}, false, common.ErrConnection},
		{"offline and not logged in", []string{"Not logged in", "Failed to connect to the API"}, false, common.ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"logout"}, sessiontest.Lines(tt.lines...))
			c := newTestClient(l)

			got, err := c.Logout(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Logout() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Logout() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Logout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetworkFailureOutput(t *testing.T) {
	offline := []string{"Windscribe CLI v2", "No internet connectivity"}

	tests := []struct {
		name string
		args []string
		call func(*Client) error
	}{
		{"locations", []string{"locations"}, func(c *Client) error {
			_, err := c.Locations(context.Background())
			return err
		}},
		{"account", []string{"account"}, func(c *Client) error {
			_, err := c.Account(context.Background())
			return err
		}},
		{"logout", []string{"logout"}, func(c *Client) error {
			_, err := c.Logout(context.Background())
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle(tt.args, sessiontest.Lines(offline...))
			c := newTestClient(l)

			err := tt.call(c)
			if !errors.Is(err, common.ErrConnection) {
				t.Fatalf("error = %v, want ErrConnection", err)
			}
			if errors.Is(err, common.ErrSchema) || errors.Is(err, common.ErrUnsupportedOutput) {
				t.Errorf("error = %v, reported as an output format change", err)
			}
			var oe *common.OutputError
			if errors.As(err, &oe) && oe.Command != "windscribe "+tt.args[0] {
				t.Errorf("OutputError.Command = %q", oe.Command)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"token", []string{"\x1b[1mWindscribe CLI client v1.4.52\x1b[0m"}, "v1.4.52"},
		{"second line", []string{"Windscribe CLI client", "version 2.3"}, "2.3"},
		{"no token", []string{"", "dev build"}, "dev build"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sessiontest.NewLauncher().Handle([]string{"--version"}, sessiontest.Lines(tt.lines...))
			c := newTestClient(l, func(o *Options) { o.Prober = &fakeProber{results: []bool{false}} })

			got, err := c.Version(context.Background())
			if err != nil {
				t.Fatalf("Version() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Version() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{Phrases: Phrases{UsernamePrompt: "User:"}})

	if c.Binary() != "windscribe" {
		t.Errorf("Binary() = %q, want windscribe", c.Binary())
	}
	if c.opts.Phrases.UsernamePrompt != "User:" {
		t.Errorf("UsernamePrompt = %q, want override kept", c.opts.Phrases.UsernamePrompt)
	}
	if c.opts.Phrases.PasswordPrompt != DefaultPhrases().PasswordPrompt {
		t.Errorf("PasswordPrompt = %q, want default", c.opts.Phrases.PasswordPrompt)
	}
	if c.opts.EnvNames != DefaultEnvNames() {
		t.Errorf("EnvNames = %+v", c.opts.EnvNames)
	}
	if c.opts.ReadTimeout != common.ReadTimeout || c.opts.CommandTimeout != common.CommandTimeout {
		t.Errorf("timeouts = %v/%v", c.opts.ReadTimeout, c.opts.CommandTimeout)
	}
}

func TestAuthState_String(t *testing.T) {
	tests := []struct {
		state AuthState
		want  string
	}{
		{AuthAwaitingCredentialsPrompt, "Awaiting credentials"},
		{AuthAlreadyLoggedIn, "Already logged in"},
		{AuthFailed, "Failed"},
		{AuthState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("AuthState.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
