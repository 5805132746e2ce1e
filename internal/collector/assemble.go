package collector

import (
	"context"
	"fmt"

	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/model"
)

// Assembler folds instances, their VMs and servers into host records.
type Assembler struct {
	NetworkTag      string
	AgentNetworkTag string
	Roles           Roles
}

// Assemble emits one host per monitorable instance in catalog order,
// followed by one agent host per server running a compute instance.
// Instances without a role and the monitor's own instances are skipped.
func (a *Assembler) Assemble(ctx context.Context, catalog *Catalog, vms *VMSet, servers *ServerSet) ([]model.Host, error) {
	log := ctxlog.FromContext(ctx)

	var hosts []model.Host
	var agents []string
	agentSeen := make(map[string]bool)

	for _, inst := range catalog.Instances {
		vm, ok := vms.Get(inst.UUID)
		if !ok {
			return nil, fmt.Errorf("instance %s: no vm resolved", inst.UUID)
		}
		srv, ok := servers.Get(vm.ServerUUID)
		if !ok {
			return nil, fmt.Errorf("instance %s: server %s: %w", inst.UUID, vm.ServerUUID, ErrServerNotFound)
		}

		role := vm.Role(a.Roles.Tag)
		switch {
		case role == "" || role == a.Roles.Self:
			log.WithField("instance", inst.UUID).WithField("role", role).Debug("skipping unmonitored instance")
			continue
		case role == a.Roles.Compute:
			if !agentSeen[vm.ServerUUID] {
				agentSeen[vm.ServerUUID] = true
				agents = append(agents, vm.ServerUUID)
			}
			continue
		}

		ip, ok := vm.TaggedIP(a.NetworkTag)
		if !ok {
			return nil, fmt.Errorf("instance %s (vm %s) on tag %s: %w",
				inst.UUID, vm.UUID, a.NetworkTag, ErrMissingTaggedInterface)
		}
		hosts = append(hosts, model.Host{
			HostType:   role,
			IP:         &ip,
			UUID:       inst.UUID,
			Datacenter: srv.Datacenter(),
			Server:     vm.ServerUUID,
		})
	}

	for _, uuid := range agents {
		srv, _ := servers.Get(uuid)
		ip := SelectAddress(a.AgentNetworkTag, srv)
		if ip == nil {
			log.WithField("server", uuid).Warn("no agent address on network tag")
		}
		hosts = append(hosts, model.Host{
			HostType:   model.HostTypeAgent,
			IP:         ip,
			UUID:       uuid,
			Datacenter: srv.Datacenter(),
			Server:     uuid,
		})
	}
	return hosts, nil
}
