package model

import (
	"encoding/json"
	"fmt"
)

// Server is the inventory record of a physical compute node.
type Server struct {
	UUID     string  `json:"uuid"`
	Hostname string  `json:"hostname,omitempty"`
	Sysinfo  Sysinfo `json:"sysinfo"`
}

// Datacenter returns the datacenter the server reports itself in.
func (s *Server) Datacenter() string {
	return s.Sysinfo.DatacenterName
}

// Sysinfo is the part of a server's hardware report that discovery reads.
// Interfaces keep the order the compute-node service reported them in.
type Sysinfo struct {
	DatacenterName    string
	NetworkInterfaces []PhysicalNIC
	VirtualInterfaces []VirtualNIC
}

// PhysicalNIC is a physical network interface. Names holds the logical
// network tags bound to it.
type PhysicalNIC struct {
	Label string   `json:"-"`
	Names []string `json:"NIC Names"`
	IP    string   `json:"ip4addr"`
	MAC   string   `json:"MAC Address,omitempty"`
}

// HasName reports whether the interface carries the given network tag.
func (n PhysicalNIC) HasName(tag string) bool {
	for _, name := range n.Names {
		if name == tag {
			return true
		}
	}
	return false
}

// VirtualNIC is a virtual interface layered on a physical one.
type VirtualNIC struct {
	Label         string `json:"-"`
	HostInterface string `json:"Host Interface"`
	IP            string `json:"ip4addr"`
	MAC           string `json:"MAC Address,omitempty"`
}

func (s *Sysinfo) UnmarshalJSON(data []byte) error {
	*s = Sysinfo{}
	return eachField(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "Datacenter Name":
			return json.Unmarshal(raw, &s.DatacenterName)
		case "Network Interfaces":
			return eachField(raw, func(label string, nicRaw json.RawMessage) error {
				var nic PhysicalNIC
				if err := json.Unmarshal(nicRaw, &nic); err != nil {
					return fmt.Errorf("network interface %s: %w", label, err)
				}
				nic.Label = label
				s.NetworkInterfaces = append(s.NetworkInterfaces, nic)
				return nil
			})
		case "Virtual Network Interfaces":
			return eachField(raw, func(label string, nicRaw json.RawMessage) error {
				var nic VirtualNIC
				if err := json.Unmarshal(nicRaw, &nic); err != nil {
					return fmt.Errorf("virtual network interface %s: %w", label, err)
				}
				nic.Label = label
				s.VirtualInterfaces = append(s.VirtualInterfaces, nic)
				return nil
			})
		}
		return nil
	})
}
