package vpn

// Phrases holds the fixed text the external client prints. They are matched
// case-insensitively against sanitized output, except the prompts which are
// matched exactly.
type Phrases struct {
	UsernamePrompt  string `yaml:"username_prompt"`
	PasswordPrompt  string `yaml:"password_prompt"`
	AlreadyLoggedIn string `yaml:"already_logged_in"`

	// ServiceError on the second line of status output means the tunnel
	// is down.
	ServiceError        []string `yaml:"service_error"`
	CredentialRejection []string `yaml:"credential_rejection"`
	EntitlementDenial   []string `yaml:"entitlement_denial"`
	NotLoggedIn         []string `yaml:"not_logged_in"`
	NetworkFailure      []string `yaml:"network_failure"`
}

// DefaultPhrases returns the phrases printed by current client releases.
func DefaultPhrases() Phrases {
	return Phrases{
		UsernamePrompt:  "Windscribe Username:",
		PasswordPrompt:  "Windscribe Password:",
		AlreadyLoggedIn: "Already Logged in",
		ServiceError:    []string{"service communication error"},
		CredentialRejection: []string{
			"Could not log in with provided credentials",
			"Invalid username or password",
		},
		EntitlementDenial: []string{
			"requires a Pro account",
			"Upgrade to Pro",
		},
		NotLoggedIn: []string{
			"Not logged in",
			"Please login to use Windscribe",
		},
		NetworkFailure: []string{
			"No internet connectivity",
			"Failed to connect to the API",
		},
	}
}

// Merge returns p with every empty field taken from d.
func (p Phrases) Merge(d Phrases) Phrases {
	if p.UsernamePrompt == "" {
		p.UsernamePrompt = d.UsernamePrompt
	}
	if p.PasswordPrompt == "" {
		p.PasswordPrompt = d.PasswordPrompt
	}
	if p.AlreadyLoggedIn == "" {
		p.AlreadyLoggedIn = d.AlreadyLoggedIn
	}
	if len(p.ServiceError) == 0 {
		p.ServiceError = d.ServiceError
	}
	if len(p.CredentialRejection) == 0 {
		p.CredentialRejection = d.CredentialRejection
	}
	if len(p.EntitlementDenial) == 0 {
		p.EntitlementDenial = d.EntitlementDenial
	}
	if len(p.NotLoggedIn) == 0 {
		p.NotLoggedIn = d.NotLoggedIn
	}
	if len(p.NetworkFailure) == 0 {
		p.NetworkFailure = d.NetworkFailure
	}
	return p
}
