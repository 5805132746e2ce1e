package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/nagyistge/manta-madtom/internal/config"
)

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	seed := config.Default()
	if detection.Prefill != nil {
		seed = detection.Prefill
	}
	answers := AnswersFrom(seed)

	var hints []string
	if detection.ServiceConfig != "" {
		hints = append(hints, fmt.Sprintf("Service config found: %s", detection.ServiceConfig))
	}
	if detection.ExistingConfig != "" {
		hints = append(hints, fmt.Sprintf("Existing config found: %s", detection.ExistingConfig))
	}
	if detection.D2Available {
		hints = append(hints, "d2 detected")
	}

	desc := "Where does discovery run?"
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	// Step 1: region and identity directory
	regionGroup := huh.NewGroup(
		huh.NewInput().
			Title("Region").
			Description(desc).
			Validate(required("region")).
			Value(&answers.Region),
		huh.NewInput().
			Title("DNS domain").
			Placeholder("example.com").
			Validate(required("DNS domain")).
			Value(&answers.DNSDomain),
		huh.NewInput().
			Title("Local datacenter").
			Description("The orchestration service of this datacenter is queried").
			Validate(required("datacenter")).
			Value(&answers.Datacenter),
	)

	ufdsGroup := huh.NewGroup(
		huh.NewInput().
			Title("UFDS URL").
			Placeholder("ldaps://ufds.us-east-1.example.com").
			Validate(validateLDAPURL).
			Value(&answers.UFDSURL),
		huh.NewInput().
			Title("Bind DN").
			Placeholder("cn=root").
			Value(&answers.UFDSBindDN),
		huh.NewInput().
			Title("Bind password").
			EchoMode(huh.EchoModePassword).
			Value(&answers.UFDSBindPassword),
		huh.NewConfirm().
			Title("Skip TLS verification?").
			Value(&answers.UFDSInsecure),
	)

	// Step 2: discovery and output
	retries := strconv.Itoa(answers.RetryMaxAttempts)
	outputGroup := huh.NewGroup(
		huh.NewInput().
			Title("Network tag").
			Description("Service hosts are addressed on this tag").
			Value(&answers.NetworkTag),
		huh.NewInput().
			Title("Agent network tag").
			Description("Compute nodes are addressed on this tag").
			Value(&answers.AgentNetworkTag),
		huh.NewInput().
			Title("Retry attempts for VM lookups").
			Description("0 retries forever").
			Validate(func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 0 {
					return fmt.Errorf("enter a number of attempts, 0 or more")
				}
				return nil
			}).
			Value(&retries),
		huh.NewSelect[string]().
			Title("Output format").
			Options(
				huh.NewOption("JSON (health checker inventory)", "json"),
				huh.NewOption("YAML", "yaml"),
				huh.NewOption("D2 diagram", "d2"),
			).
			Value(&answers.Format),
		huh.NewInput().
			Title("Output file").
			Value(&answers.Output),
	)

	form := huh.NewForm(regionGroup, ufdsGroup, outputGroup)
	if err := form.Run(); err != nil {
		return nil, err
	}
	answers.RetryMaxAttempts, _ = strconv.Atoi(retries)

	if answers.Format == "d2" && detection.D2Available {
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Render the diagram to SVG after each run?").
				Value(&answers.AutoRender),
		))
		if err := confirm.Run(); err != nil {
			return nil, err
		}
	}

	return &answers, nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// validateLDAPURL reuses the config check for the UFDS URL.
func validateLDAPURL(s string) error {
	cfg := config.Default()
	cfg.UFDS.URL = s
	for _, e := range cfg.Validate() {
		if e.Field == "ufds.url" {
			return fmt.Errorf("%s", e.Message)
		}
	}
	return nil
}
