package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/model"
)

// Stage names, as used in errors and metrics.
const (
	StageTopology = "topology"
	StageCatalog  = "catalog"
	StageVMs      = "vms"
	StageServers  = "servers"
	StageAssemble = "assemble"
)

var stageDisplayNames = map[string]string{
	StageTopology: "Region topology",
	StageCatalog:  "Instance catalog",
	StageVMs:      "VM resolution",
	StageServers:  "Server resolution",
	StageAssemble: "Host assembly",
}

// StageResult holds the outcome of a single pipeline stage.
type StageResult struct {
	Name        string
	DisplayName string
	Detail      string
	Duration    time.Duration
	Err         error
}

// Reporter receives each stage result as soon as the stage ends.
type Reporter func(StageResult)

// Collect runs the discovery pipeline and returns the hosts in output
// order. Nothing is returned on failure; the error is a *StageError.
func Collect(ctx context.Context, svc Services, opts Options, report Reporter) ([]model.Host, error) {
	if report == nil {
		report = func(StageResult) {}
	}
	log := ctxlog.FromContext(ctx).WithField("region", opts.Region)
	ctx = ctxlog.Context(ctx, log)

	run := func(stage string, fn func() (string, error)) error {
		start := time.Now()
		detail, err := fn()
		d := time.Since(start)
		opts.Metrics.ObserveStage(stage, d)

		res := StageResult{Name: stage, DisplayName: stageDisplayNames[stage], Detail: detail, Duration: d}
		if err != nil {
			res.Err = &StageError{Stage: stage, Err: err}
		}
		report(res)
		if res.Err != nil {
			return res.Err
		}
		log.WithField("stage", stage).WithField("took", d.String()).Debug(detail)
		return nil
	}

	var (
		topo    *Topology
		catalog *Catalog
		vms     *VMSet
		servers *ServerSet
		hosts   []model.Host
	)

	if err := run(StageTopology, func() (string, error) {
		var err error
		topo, err = DiscoverDatacenters(ctx, svc.Identity, opts.Region)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d datacenters", len(topo.Datacenters)), nil
	}); err != nil {
		return nil, err
	}

	if err := run(StageCatalog, func() (string, error) {
		app, err := FindApplication(ctx, svc, opts.Application, opts.Owner)
		if err != nil {
			return "", err
		}
		catalog, err = ListInstances(ctx, svc.Catalog, app)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d instances of %s", catalog.Len(), app.Name), nil
	}); err != nil {
		return nil, err
	}

	if err := run(StageVMs, func() (string, error) {
		r := &VMResolver{Topology: topo, Clients: svc.Clients, Retry: opts.Retry, Metrics: opts.Metrics}
		var err error
		vms, err = r.ResolveAll(ctx, catalog, opts.Concurrency)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d vms", vms.Len()), nil
	}); err != nil {
		return nil, err
	}

	if err := run(StageServers, func() (string, error) {
		r := &ServerResolver{Topology: topo, Clients: svc.Clients}
		var err error
		servers, err = r.ResolveAll(ctx, catalog, vms, opts.Concurrency)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d servers", servers.Len()), nil
	}); err != nil {
		return nil, err
	}

	if err := run(StageAssemble, func() (string, error) {
		a := &Assembler{NetworkTag: opts.NetworkTag, AgentNetworkTag: opts.AgentNetworkTag, Roles: opts.Roles}
		var err error
		hosts, err = a.Assemble(ctx, catalog, vms, servers)
		if err != nil {
			return "", err
		}
		agents := 0
		for _, h := range hosts {
			if h.IsAgent() {
				agents++
			}
		}
		return fmt.Sprintf("%d hosts, %d agents", len(hosts)-agents, agents), nil
	}); err != nil {
		return nil, err
	}

	opts.Metrics.ObserveHosts(hosts)
	return hosts, nil
}
