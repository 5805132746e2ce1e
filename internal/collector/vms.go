package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/metrics"
	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// VMSet holds the VM of every catalog instance, keyed by instance uuid.
type VMSet struct {
	byInstance map[string]*model.VM
}

// Get returns the VM resolved for an instance.
func (s *VMSet) Get(instanceUUID string) (*model.VM, bool) {
	vm, ok := s.byInstance[instanceUUID]
	return vm, ok
}

// Len returns the number of resolved VMs.
func (s *VMSet) Len() int {
	return len(s.byInstance)
}

// VMResolver looks up instance VMs in the datacenter they were
// provisioned in.
type VMResolver struct {
	Topology *Topology
	Clients  DatacenterClients
	Retry    RetryPolicy
	Metrics  *metrics.Metrics

	// sleep waits between attempts; tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// Resolve fetches the VM of inst. Transient faults are retried with
// backoff until the policy gives up; any other fault fails at once.
func (r *VMResolver) Resolve(ctx context.Context, inst model.Instance) (*model.VM, error) {
	dc, ok := inst.Datacenter()
	if !ok {
		return nil, fmt.Errorf("instance %s: %w", inst.UUID, ErrMissingDatacenterMetadata)
	}
	if r.Topology != nil && !r.Topology.Has(dc) {
		return nil, fmt.Errorf("instance %s in %s: %w", inst.UUID, dc, ErrUnknownDatacenter)
	}

	log := ctxlog.FromContext(ctx).WithFields(logrus.Fields{
		"instance": inst.UUID,
		"dc":       dc,
	})
	vms := r.Clients.VMDirectory(dc)

	for attempt := 1; ; attempt++ {
		vm, err := vms.GetVM(ctx, inst.UUID)
		if err == nil {
			return vm, nil
		}
		if !transient(err) {
			return nil, fmt.Errorf("getting vm of instance %s in %s: %w", inst.UUID, dc, err)
		}
		if r.Retry.MaxAttempts > 0 && attempt >= r.Retry.MaxAttempts {
			return nil, fmt.Errorf("getting vm of instance %s in %s: %w after %d attempts: %w",
				inst.UUID, dc, ErrRetriesExhausted, attempt, err)
		}

		wait := retryablehttp.DefaultBackoff(r.Retry.MinBackoff, r.Retry.MaxBackoff, attempt-1, nil)
		log.WithError(err).WithField("attempt", attempt).Debug("transient fault getting vm, retrying")
		r.Metrics.ObserveRetry("vmapi")
		if err := r.wait(ctx, wait); err != nil {
			return nil, fmt.Errorf("getting vm of instance %s: %w", inst.UUID, err)
		}
	}
}

func (r *VMResolver) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ResolveAll resolves every instance of the catalog concurrently. The
// first fatal failure cancels the remaining lookups.
func (r *VMResolver) ResolveAll(ctx context.Context, catalog *Catalog, limit int) (*VMSet, error) {
	resolved := make([]*model.VM, len(catalog.Instances))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, inst := range catalog.Instances {
		i, inst := i, inst
		g.Go(func() error {
			vm, err := r.Resolve(gctx, inst)
			if err != nil {
				return err
			}
			resolved[i] = vm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &VMSet{byInstance: make(map[string]*model.VM, len(resolved))}
	for i, inst := range catalog.Instances {
		set.byInstance[inst.UUID] = resolved[i]
	}
	return set, nil
}
