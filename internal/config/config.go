package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Check when required settings are missing.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Region          string        `mapstructure:"region"`
	DNSDomain       string        `mapstructure:"dnsDomain"`
	Datacenter      string        `mapstructure:"datacenter"`
	UFDS            UFDSConfig    `mapstructure:"ufds"`
	NetworkTag      string        `mapstructure:"networkTag"`
	AgentNetworkTag string        `mapstructure:"agentNetworkTag"`
	Application     Application   `mapstructure:"application"`
	Roles           Roles         `mapstructure:"roles"`
	Output          string        `mapstructure:"output"`
	Format          string        `mapstructure:"format"`
	Retry           RetryConfig   `mapstructure:"retry"`
	HTTP            HTTPConfig    `mapstructure:"http"`
	Concurrency     int           `mapstructure:"concurrency"`
	Log             LogConfig     `mapstructure:"log"`
	Metrics         MetricsConfig `mapstructure:"metrics"`
	Render          RenderConfig  `mapstructure:"render"`
}

// UFDSConfig locates the identity directory. The keys match the ufds block
// of an SDC service config.
type UFDSConfig struct {
	URL          string        `mapstructure:"url"`
	BindDN       string        `mapstructure:"bindDN"`
	BindPassword string        `mapstructure:"bindPassword"`
	Insecure     bool          `mapstructure:"insecure"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type Application struct {
	Name  string `mapstructure:"name"`
	Owner string `mapstructure:"owner"`
}

// Roles names the VM tag holding a role and the roles that get special
// treatment during assembly.
type Roles struct {
	Tag     string `mapstructure:"tag"`
	Compute string `mapstructure:"compute"`
	Self    string `mapstructure:"self"`
}

// RetryConfig bounds retries of transient VM lookup faults. MaxAttempts 0
// retries forever.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"maxAttempts"`
	MinBackoff  time.Duration `mapstructure:"minBackoff"`
	MaxBackoff  time.Duration `mapstructure:"maxBackoff"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type RenderConfig struct {
	AutoRender bool   `mapstructure:"auto_render"`
	Format     string `mapstructure:"format"` // svg, png
}

// DefaultOutputDir holds the inventory unless output is set.
const DefaultOutputDir = "/opt/smartdc/madtom/etc"

// DefaultOutput returns the inventory path used when output is not set. The
// extension follows the format.
func DefaultOutput(format string) string {
	ext := strings.ToLower(format)
	if ext == "" {
		ext = "json"
	}
	return DefaultOutputDir + "/checker-hosts." + ext
}

// Default returns a config with every optional setting filled in.
func Default() *Config {
	cfg := &Config{
		NetworkTag:      "manta",
		AgentNetworkTag: "manta",
		Output:          DefaultOutput("json"),
		Format:          "json",
	}
	cfg.UFDS.Timeout = 30 * time.Second
	cfg.Application.Name = "manta"
	cfg.Application.Owner = "poseidon"
	cfg.Roles.Tag = "manta_role"
	cfg.Roles.Compute = "compute"
	cfg.Roles.Self = "madtom"
	cfg.Retry.MaxAttempts = 10
	cfg.Retry.MinBackoff = 100 * time.Millisecond
	cfg.Retry.MaxBackoff = 5 * time.Second
	cfg.HTTP.Timeout = 30 * time.Second
	cfg.HTTP.Retries = 2
	cfg.Log.Level = "info"
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	cfg.Log.Format = "json"
	cfg.Render.Format = "svg"
	return cfg
}

// EnvPrefix prefixes environment overrides, e.g. CHECKER_HOSTS_UFDS_URL.
const EnvPrefix = "CHECKER_HOSTS"

// keys lists every setting so environment overrides reach Unmarshal even
// when the config file does not mention them.
var keys = []string{
	"region", "dnsDomain", "datacenter",
	"ufds.url", "ufds.bindDN", "ufds.bindPassword", "ufds.insecure", "ufds.timeout",
	"networkTag", "agentNetworkTag",
	"application.name", "application.owner",
	"roles.tag", "roles.compute", "roles.self",
	"output", "format",
	"retry.maxAttempts", "retry.minBackoff", "retry.maxBackoff",
	"http.timeout", "http.retries",
	"concurrency",
	"log.level", "log.format",
	"metrics.textfile",
	"render.auto_render", "render.format",
}

// BindEnv makes every setting overridable from the environment.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the config from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes v over the defaults.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if !v.IsSet("output") {
		cfg.Output = DefaultOutput(cfg.Format)
	}
	return cfg, nil
}

// Check returns ErrInvalidConfig wrapped with every validation problem.
func (c *Config) Check() error {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for _, ve := range errs {
		fields = append(fields, ve.Field+": "+ve.Message)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
}
