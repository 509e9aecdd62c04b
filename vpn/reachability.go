package vpn

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"

	"github.com/yllada/windscribe-client/common"
)

// Prober reports whether the network is usable. The client asks it before
// commands that need the API and after a timeout, to tell a dead network
// apart from a stuck process.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// ProbeConfig holds configuration for the DNS prober.
type ProbeConfig struct {
	// Resolvers are host:port addresses queried in order.
	Resolvers []string
	// Name is the record asked for. Any answer counts, NXDOMAIN included.
	Name string
	// Timeout bounds each query.
	Timeout time.Duration
}

// DefaultProbeConfig returns public resolvers and a short timeout.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Resolvers: []string{
			"1.1.1.1:53", // Cloudflare DNS
			"8.8.8.8:53", // Google DNS
		},
		Name:    "windscribe.com",
		Timeout: common.ProbeTimeout,
	}
}

// DNSProber checks reachability with a single DNS query per resolver.
type DNSProber struct {
	config ProbeConfig
	client *dns.Client
	log    *common.AppLogger
}

// NewDNSProber creates a prober. Empty fields of config take their defaults.
func NewDNSProber(config ProbeConfig) *DNSProber {
	def := DefaultProbeConfig()
	if len(config.Resolvers) == 0 {
		config.Resolvers = def.Resolvers
	}
	if config.Name == "" {
		config.Name = def.Name
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}

	return &DNSProber{
		config: config,
		client: &dns.Client{Net: "udp", Timeout: config.Timeout},
		log:    common.GetLogger().With("probe", "dns"),
	}
}

// Check queries each resolver until one answers and returns its round trip
// time.
func (p *DNSProber) Check(ctx context.Context) (time.Duration, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(p.config.Name), dns.TypeA)
	msg.RecursionDesired = true

	var lastErr error
	for _, addr := range p.config.Resolvers {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		in, rtt, err := p.client.ExchangeContext(ctx, msg, addr)
		if err != nil {
			p.log.Debug("resolver %s: %v", addr, err)
			lastErr = err
			continue
		}
		if in == nil {
			lastErr = fmt.Errorf("resolver %s: empty reply", addr)
			continue
		}
		p.log.Debug("resolver %s answered in %v (rcode %s)", addr, rtt, dns.RcodeToString[in.Rcode])
		return rtt, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no resolvers configured")
	}
	return 0, fmt.Errorf("%w: %v", common.ErrConnection, lastErr)
}

// Reachable implements Prober.
func (p *DNSProber) Reachable(ctx context.Context) bool {
	_, err := p.Check(ctx)
	return err == nil
}
