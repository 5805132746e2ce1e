package collector

import (
	"context"
	"fmt"
	"sync"

	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/model"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ServerSet holds every server referenced by a VM set, keyed by uuid.
type ServerSet struct {
	order []string
	byID  map[string]*model.Server
}

// Get returns a resolved server.
func (s *ServerSet) Get(uuid string) (*model.Server, bool) {
	srv, ok := s.byID[uuid]
	return srv, ok
}

// UUIDs returns the server uuids in first-seen order.
func (s *ServerSet) UUIDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of distinct servers.
func (s *ServerSet) Len() int {
	return len(s.order)
}

// ServerResolver finds servers whose datacenter is not known up front by
// asking every datacenter of the region.
type ServerResolver struct {
	Topology *Topology
	Clients  DatacenterClients
}

// Resolve asks every datacenter for the server and waits for all of them.
// The answer from the earliest datacenter in topology order wins. It fails
// with ErrServerNotFound only when every datacenter failed.
func (r *ServerResolver) Resolve(ctx context.Context, uuid string) (*model.Server, error) {
	dcs := r.Topology.Datacenters
	found := make([]*model.Server, len(dcs))
	errs := make([]error, len(dcs))

	var wg sync.WaitGroup
	for i, dc := range dcs {
		wg.Add(1)
		go func(i int, dc string) {
			defer wg.Done()
			srv, err := r.Clients.ComputeDirectory(dc).GetServer(ctx, uuid)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", dc, err)
				return
			}
			found[i] = srv
		}(i, dc.Name)
	}
	wg.Wait()

	log := ctxlog.FromContext(ctx).WithField("server", uuid)
	for i, srv := range found {
		if srv != nil {
			log.WithField("dc", dcs[i].Name).Debug("found server")
			return srv, nil
		}
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, fmt.Errorf("server %s: %w: %w", uuid, ErrServerNotFound, err)
	}
	return nil, fmt.Errorf("server %s: %w", uuid, ErrServerNotFound)
}

// ResolveAll resolves each distinct server referenced by the VM set once.
// Servers are visited in catalog order.
func (r *ServerResolver) ResolveAll(ctx context.Context, catalog *Catalog, vms *VMSet, limit int) (*ServerSet, error) {
	set := &ServerSet{byID: make(map[string]*model.Server)}
	seen := make(map[string]bool)
	for _, inst := range catalog.Instances {
		vm, ok := vms.Get(inst.UUID)
		if !ok || seen[vm.ServerUUID] {
			continue
		}
		seen[vm.ServerUUID] = true
		set.order = append(set.order, vm.ServerUUID)
	}

	resolved := make([]*model.Server, len(set.order))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, uuid := range set.order {
		i, uuid := i, uuid
		g.Go(func() error {
			srv, err := r.Resolve(gctx, uuid)
			if err != nil {
				return err
			}
			resolved[i] = srv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, uuid := range set.order {
		set.byID[uuid] = resolved[i]
	}
	return set, nil
}
