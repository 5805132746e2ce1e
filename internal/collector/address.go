package collector

import (
	"strings"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// SelectAddress picks the address a server is reachable on for the given
// network tag. The first physical interface carrying the tag answers with
// its own address. When it has none, the address comes from the first
// virtual interface stacked on it whose label starts with the tag. nil
// means the server has no address on the tag.
func SelectAddress(tag string, srv *model.Server) *string {
	if srv == nil {
		return nil
	}
	var phys *model.PhysicalNIC
	for i := range srv.Sysinfo.NetworkInterfaces {
		if srv.Sysinfo.NetworkInterfaces[i].HasName(tag) {
			phys = &srv.Sysinfo.NetworkInterfaces[i]
			break
		}
	}
	if phys == nil {
		return nil
	}
	if phys.IP != "" {
		ip := phys.IP
		return &ip
	}

	for _, vnic := range srv.Sysinfo.VirtualInterfaces {
		if vnic.HostInterface == phys.Label && strings.HasPrefix(vnic.Label, tag) {
			if vnic.IP == "" {
				return nil
			}
			ip := vnic.IP
			return &ip
		}
	}
	return nil
}
