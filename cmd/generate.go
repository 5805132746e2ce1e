package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nagyistge/manta-madtom/internal/collector"
	"github.com/nagyistge/manta-madtom/internal/config"
	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/directory"
	"github.com/nagyistge/manta-madtom/internal/metrics"
	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/nagyistge/manta-madtom/internal/render"
	"github.com/nagyistge/manta-madtom/internal/ui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	outputFile      string
	networkTag      string
	agentNetworkTag string
	outputFormat    string
	autoRender      bool
	renderFormat    string
	themeName       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Discover hosts and write the checker inventory",
	Long: `Walk the region's datacenters, resolve every instance of the application to
its VM and server, and write the resulting host list. Nothing is written
unless discovery succeeds completely.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "file", "f", "", "output file, - for stdout (default: /opt/smartdc/madtom/etc/checker-hosts.json)")
	generateCmd.Flags().StringVarP(&networkTag, "network-tag", "n", "", "NIC tag instances are monitored on (default: manta)")
	generateCmd.Flags().StringVarP(&agentNetworkTag, "agent-network-tag", "a", "", "NIC tag compute nodes are monitored on (default: manta)")
	generateCmd.Flags().StringVar(&outputFormat, "format", "", "output format: json, yaml, d2")
	generateCmd.Flags().BoolVar(&autoRender, "render", false, "render a d2 output to SVG/PNG after writing it (requires d2)")
	generateCmd.Flags().StringVar(&renderFormat, "render-format", "", "image format for --render: svg, png (default: svg)")
	generateCmd.Flags().StringVar(&themeName, "theme", "", "d2 color theme: "+strings.Join(render.ThemeNames(), ", "))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'checker-hosts init' to create a config file"))
		return err
	}

	applyFlagOverrides(cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, ve := range errs {
			ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
		}
		return cfg.Check()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := ctxlog.Root().WithFields(logrus.Fields{
		"region":      cfg.Region,
		"datacenter":  cfg.Datacenter,
		"application": cfg.Application.Name,
	})
	ctx = ctxlog.Context(ctx, log)

	m := metrics.New()
	svc, closeServices := newServices(cfg, log, m)
	defer closeServices()

	err = generate(ctx, cfg, svc, m)
	if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
		log.WithError(werr).Warn("writing metrics textfile")
	}
	return err
}

// newServices builds the directory clients for a run. The returned func
// releases the identity directory connection.
func newServices(cfg *config.Config, log logrus.FieldLogger, m *metrics.Metrics) (collector.Services, func()) {
	ufds := directory.NewUFDS(directory.UFDSOptions{
		URL:          cfg.UFDS.URL,
		BindDN:       cfg.UFDS.BindDN,
		BindPassword: cfg.UFDS.BindPassword,
		Insecure:     cfg.UFDS.Insecure,
		Timeout:      cfg.UFDS.Timeout,
		Logger:       log,
		Observer:     m,
	})
	opts := directory.ClientOptions{
		Timeout:  cfg.HTTP.Timeout,
		Retries:  cfg.HTTP.Retries,
		Logger:   log,
		Observer: m,
	}
	svc := collector.Services{
		Identity: ufds,
		Catalog:  directory.NewSAPI(directory.ServiceURL("sapi", cfg.Datacenter, cfg.DNSDomain), opts),
		Clients:  directory.NewClientSet(cfg.DNSDomain, opts),
	}
	return svc, ufds.Close
}

// generate runs discovery and hands the hosts to the configured sink.
func generate(ctx context.Context, cfg *config.Config, svc collector.Services, m *metrics.Metrics) error {
	log := ctxlog.FromContext(ctx)

	renderer, err := render.ForFormat(cfg.Format)
	if err != nil {
		return err
	}
	if d2, ok := renderer.(*render.D2Renderer); ok {
		d2.Theme = themeName
	}

	fmt.Fprintln(ui.Out, ui.Bold("Discovering hosts in "+cfg.Region+"..."))

	hosts, err := collector.Collect(ctx, svc, collector.OptionsFromConfig(cfg, m), reportStage)
	if err != nil {
		log.WithError(err).Error("discovery failed")
		fmt.Fprint(os.Stderr, ui.FormatError("Discovery failed", err.Error(), suggestionFor(err)))
		return err
	}

	if err := render.NewSink(cfg.Output, renderer, os.Stdout).Write(hosts); err != nil {
		log.WithError(err).WithField("output", cfg.Output).Error("writing inventory")
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write output", err.Error(), ""))
		return err
	}
	m.MarkSuccess(time.Now())

	warnUnaddressed(hosts, cfg.AgentNetworkTag)
	agents := countAgents(hosts)
	log.WithField("hosts", len(hosts)).WithField("agents", agents).WithField("output", cfg.Output).Info("wrote inventory")
	ui.Success(fmt.Sprintf("Generated %s (%d hosts, %d agents)", cfg.Output, len(hosts)-agents, agents))

	if cfg.Render.AutoRender && cfg.Format == render.FormatD2 && cfg.Output != "-" {
		if err := autoRenderD2(cfg.Output, cfg.Render.Format); err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Auto-render failed", err.Error(), "install d2: https://d2lang.com/tour/install"))
		}
	}
	return nil
}

func reportStage(r collector.StageResult) {
	if r.Err != nil {
		ui.StageFailed(r.DisplayName)
		return
	}
	ui.StageDone(r.DisplayName, r.Detail, r.Duration)
}

func suggestionFor(err error) string {
	switch {
	case errors.Is(err, collector.ErrNoDatacentersFound):
		return "check the region name and the UFDS bind credentials"
	case errors.Is(err, collector.ErrUserNotFound), errors.Is(err, collector.ErrApplicationNotFound):
		return "check application.name and application.owner"
	case errors.Is(err, collector.ErrRetriesExhausted):
		return "raise retry.maxAttempts or check VMAPI health"
	case errors.Is(err, collector.ErrMissingTaggedInterface):
		return "check --network-tag against the instance NICs"
	}
	return ""
}

func applyFlagOverrides(cfg *config.Config) {
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if networkTag != "" {
		cfg.NetworkTag = networkTag
	}
	if agentNetworkTag != "" {
		cfg.AgentNetworkTag = agentNetworkTag
	}
	if outputFormat != "" {
		derived := cfg.Output == config.DefaultOutput(cfg.Format)
		cfg.Format = strings.ToLower(outputFormat)
		if outputFile == "" && derived {
			cfg.Output = config.DefaultOutput(cfg.Format)
		}
	}
	if autoRender {
		cfg.Render.AutoRender = true
	}
	if renderFormat != "" {
		cfg.Render.Format = renderFormat
	}
}

func countAgents(hosts []model.Host) int {
	count := 0
	for _, h := range hosts {
		if h.IsAgent() {
			count++
		}
	}
	return count
}

// warnUnaddressed flags compute nodes written without an address.
func warnUnaddressed(hosts []model.Host, tag string) {
	for _, h := range hosts {
		if h.IsAgent() && h.IP == nil {
			ui.Warn(fmt.Sprintf("compute node %s has no address on NIC tag %s", h.Server, tag))
		}
	}
}

func autoRenderD2(d2File, format string) error {
	if format == "" {
		format = "svg"
	}

	d2Path, err := findExecutable("d2")
	if err != nil {
		return fmt.Errorf("d2 not found in PATH, install it from https://d2lang.com/tour/install")
	}

	outFile := strings.TrimSuffix(d2File, ".d2") + "." + format

	cmd := execCommand(d2Path, d2File, outFile)
	cmd.Stdout = ui.Out
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("d2 render failed: %w", err)
	}

	ui.Success(fmt.Sprintf("Rendered %s", outFile))
	return nil
}
