package wizard

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nagyistge/manta-madtom/internal/config"
	"github.com/spf13/viper"
)

// ServiceConfigPath is the config file the monitor service itself is
// deployed with. It carries the region and directory settings.
const ServiceConfigPath = "/opt/smartdc/madtom/etc/config.json"

// ConfigDirs are searched, in order, for an existing checker-hosts config.
var ConfigDirs = []string{".", "/opt/smartdc/madtom/etc"}

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	D2Available    bool
	ExistingConfig string // path if found, empty otherwise
	ServiceConfig  string
	Prefill        *config.Config
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) ReadFile(path string) ([]byte, error)  { return os.ReadFile(path) }

// Detect scans the environment for an existing config, the service config
// to prefill answers from, and the d2 binary.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if _, err := d.LookPath("d2"); err == nil {
		result.D2Available = true
	}

	for _, dir := range ConfigDirs {
		for _, ext := range []string{"yml", "yaml", "json"} {
			p := filepath.Join(dir, "checker-hosts."+ext)
			if _, err := d.Stat(p); err == nil {
				result.ExistingConfig = p
				break
			}
		}
		if result.ExistingConfig != "" {
			break
		}
	}

	if data, err := d.ReadFile(ServiceConfigPath); err == nil {
		if cfg, err := ParseServiceConfig(data, "json"); err == nil {
			result.ServiceConfig = ServiceConfigPath
			result.Prefill = cfg
		}
	}

	return result
}

// ParseServiceConfig decodes a service config over the defaults.
func ParseServiceConfig(data []byte, format string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigType(strings.TrimPrefix(format, "."))
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("parsing service config: %w", err)
	}
	return config.LoadFrom(v)
}
