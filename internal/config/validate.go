package config

import (
	"fmt"
	"net/url"
)

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // config key, e.g. "ufds.url"
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Validate reports every missing or malformed setting. An empty result
// means discovery may start.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	required := []struct {
		field, value, suggestion string
	}{
		{"region", c.Region, "set the SDC region the application runs in, e.g. us-east"},
		{"dnsDomain", c.DNSDomain, "set the DNS domain the SDC services live under, e.g. joyent.us"},
		{"datacenter", c.Datacenter, "set the local datacenter name, used to reach SAPI"},
		{"ufds.url", c.UFDS.URL, "point at the UFDS LDAP endpoint, e.g. ldaps://ufds.us-east-1.joyent.us"},
		{"networkTag", c.NetworkTag, "pass -n or set the NIC tag instances are monitored on"},
		{"agentNetworkTag", c.AgentNetworkTag, "pass -a or set the NIC tag compute nodes are monitored on"},
		{"application.name", c.Application.Name, "set the SAPI application name, e.g. manta"},
		{"application.owner", c.Application.Owner, "set the login owning the application, e.g. poseidon"},
		{"roles.tag", c.Roles.Tag, "set the VM tag holding the role, e.g. manta_role"},
		{"roles.compute", c.Roles.Compute, "set the role of compute node agents, e.g. compute"},
		{"roles.self", c.Roles.Self, "set the role of this service, e.g. madtom"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, ValidationError{
				Field:      r.field,
				Message:    r.field + " is required",
				Suggestion: r.suggestion,
			})
		}
	}

	if c.UFDS.URL != "" {
		u, err := url.Parse(c.UFDS.URL)
		if err != nil || (u.Scheme != "ldap" && u.Scheme != "ldaps") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:      "ufds.url",
				Message:    fmt.Sprintf("%q is not an ldap:// or ldaps:// URL", c.UFDS.URL),
				Suggestion: "use the form ldaps://host[:port]",
			})
		}
	}

	switch c.Format {
	case "json", "yaml", "d2":
	default:
		errs = append(errs, ValidationError{
			Field:      "format",
			Message:    fmt.Sprintf("unknown output format %q", c.Format),
			Suggestion: "use one of json, yaml, d2",
		})
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, ValidationError{
			Field:      "retry.maxAttempts",
			Message:    "must not be negative",
			Suggestion: "use 0 to retry transient faults forever",
		})
	}
	if c.Retry.MaxBackoff < c.Retry.MinBackoff {
		errs = append(errs, ValidationError{
			Field:      "retry.maxBackoff",
			Message:    "must not be shorter than retry.minBackoff",
			Suggestion: "raise retry.maxBackoff",
		})
	}
	if c.Concurrency < 0 {
		errs = append(errs, ValidationError{
			Field:      "concurrency",
			Message:    "must not be negative",
			Suggestion: "use 0 for no limit",
		})
	}

	return errs
}
