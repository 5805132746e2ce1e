package collector

import (
	"time"

	"github.com/nagyistge/manta-madtom/internal/config"
	"github.com/nagyistge/manta-madtom/internal/metrics"
)

// RetryPolicy bounds the retries of a transiently failing lookup.
// MaxAttempts counts every call including the first; 0 never gives up.
type RetryPolicy struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// Roles names the VM tag holding a role and the roles assembly treats
// specially.
type Roles struct {
	Tag     string
	Compute string
	Self    string
}

// Options drive a discovery run.
type Options struct {
	Region          string
	Application     string
	Owner           string
	NetworkTag      string
	AgentNetworkTag string
	Roles           Roles
	Retry           RetryPolicy
	// Concurrency caps in-flight lookups per stage. 0 means unbounded.
	Concurrency int
	Metrics     *metrics.Metrics
}

// OptionsFromConfig maps the loaded config onto run options.
func OptionsFromConfig(cfg *config.Config, m *metrics.Metrics) Options {
	return Options{
		Region:          cfg.Region,
		Application:     cfg.Application.Name,
		Owner:           cfg.Application.Owner,
		NetworkTag:      cfg.NetworkTag,
		AgentNetworkTag: cfg.AgentNetworkTag,
		Roles: Roles{
			Tag:     cfg.Roles.Tag,
			Compute: cfg.Roles.Compute,
			Self:    cfg.Roles.Self,
		},
		Retry: RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			MinBackoff:  cfg.Retry.MinBackoff,
			MaxBackoff:  cfg.Retry.MaxBackoff,
		},
		Concurrency: cfg.Concurrency,
		Metrics:     m,
	}
}
