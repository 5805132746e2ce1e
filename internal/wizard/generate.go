package wizard

import (
	"bytes"
	"strconv"
	"text/template"

	"github.com/nagyistge/manta-madtom/internal/config"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	// Region
	Region     string
	DNSDomain  string
	Datacenter string

	// Identity directory
	UFDSURL          string
	UFDSBindDN       string
	UFDSBindPassword string
	UFDSInsecure     bool

	// Discovery
	NetworkTag       string
	AgentNetworkTag  string
	RetryMaxAttempts int

	// Output
	Output     string
	Format     string
	AutoRender bool
}

// AnswersFrom seeds answers from a config, typically the defaults or a
// parsed service config.
func AnswersFrom(cfg *config.Config) WizardAnswers {
	return WizardAnswers{
		Region:           cfg.Region,
		DNSDomain:        cfg.DNSDomain,
		Datacenter:       cfg.Datacenter,
		UFDSURL:          cfg.UFDS.URL,
		UFDSBindDN:       cfg.UFDS.BindDN,
		UFDSBindPassword: cfg.UFDS.BindPassword,
		UFDSInsecure:     cfg.UFDS.Insecure,
		NetworkTag:       cfg.NetworkTag,
		AgentNetworkTag:  cfg.AgentNetworkTag,
		RetryMaxAttempts: cfg.Retry.MaxAttempts,
		Output:           cfg.Output,
		Format:           cfg.Format,
		AutoRender:       cfg.Render.AutoRender,
	}
}

const configTemplate = `# checker-hosts configuration

region: {{ q .Region }}
dnsDomain: {{ q .DNSDomain }}
datacenter: {{ q .Datacenter }}

ufds:
  url: {{ q .UFDSURL }}
{{- if .UFDSBindDN }}
  bindDN: {{ q .UFDSBindDN }}
{{- end }}
{{- if .UFDSBindPassword }}
  bindPassword: {{ q .UFDSBindPassword }}
{{- end }}
{{- if .UFDSInsecure }}
  insecure: true
{{- end }}

networkTag: {{ q .NetworkTag }}
agentNetworkTag: {{ q .AgentNetworkTag }}

retry:
  maxAttempts: {{ .RetryMaxAttempts }}

output: {{ q .Output }}
format: {{ .Format }}
{{- if .AutoRender }}

render:
  auto_render: true
{{- end }}
`

// GenerateConfig renders the YAML config from wizard answers.
func GenerateConfig(answers WizardAnswers) (string, error) {
	def := AnswersFrom(config.Default())
	if answers.NetworkTag == "" {
		answers.NetworkTag = def.NetworkTag
	}
	if answers.AgentNetworkTag == "" {
		answers.AgentNetworkTag = def.AgentNetworkTag
	}
	if answers.Output == "" {
		answers.Output = def.Output
	}
	if answers.Format == "" {
		answers.Format = def.Format
	}
	if answers.RetryMaxAttempts < 0 {
		answers.RetryMaxAttempts = def.RetryMaxAttempts
	}

	tmpl, err := template.New("config").Funcs(template.FuncMap{"q": strconv.Quote}).Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
