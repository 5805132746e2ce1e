package collector

import (
	"context"
	"fmt"

	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/model"
)

// Topology is the set of datacenters in a region, in directory order.
type Topology struct {
	Region      string
	Datacenters []model.Datacenter
}

// Has reports whether the named datacenter is part of the region.
func (t *Topology) Has(name string) bool {
	for _, dc := range t.Datacenters {
		if dc.Name == name {
			return true
		}
	}
	return false
}

// Names returns the datacenter names.
func (t *Topology) Names() []string {
	names := make([]string, len(t.Datacenters))
	for i, dc := range t.Datacenters {
		names[i] = dc.Name
	}
	return names
}

// DiscoverDatacenters lists the datacenters registered under region.
// A datacenter listed more than once is kept at its first position and
// later records for it are dropped.
func DiscoverDatacenters(ctx context.Context, dir IdentityDirectory, region string) (*Topology, error) {
	log := ctxlog.FromContext(ctx).WithField("region", region)

	records, err := dir.ListDatacenters(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("listing datacenters of region %s: %w", region, err)
	}

	topo := &Topology{Region: region}
	seen := make(map[string]bool, len(records))
	for _, dc := range records {
		if seen[dc.Name] {
			log.WithField("dc", dc.Name).Debug("dropping duplicate datacenter record")
			continue
		}
		seen[dc.Name] = true
		topo.Datacenters = append(topo.Datacenters, dc)
	}

	if len(topo.Datacenters) == 0 {
		log.Info("identity directory returned no datacenters")
		return nil, fmt.Errorf("region %s: %w", region, ErrNoDatacentersFound)
	}
	log.WithField("dcs", topo.Names()).Debug("found datacenters")
	return topo, nil
}
