package model

// HostTypeAgent is the host type of the per-server agent record.
const HostTypeAgent = "agent"

// Host is one monitorable host. The JSON field names are read by the
// health checker and must not change.
type Host struct {
	HostType   string  `json:"hostType" yaml:"hostType"`
	IP         *string `json:"ip" yaml:"ip"`
	UUID       string  `json:"uuid" yaml:"uuid"`
	Datacenter string  `json:"datacenter" yaml:"datacenter"`
	Server     string  `json:"server" yaml:"server"`
}

// IsAgent reports whether h is a per-server agent record.
func (h Host) IsAgent() bool {
	return h.HostType == HostTypeAgent
}

// Address returns the host IP, or "" when it is unknown.
func (h Host) Address() string {
	if h.IP == nil {
		return ""
	}
	return *h.IP
}

// Inventory is the document handed to a sink.
type Inventory struct {
	Hosts []Host `json:"hosts" yaml:"hosts"`
}

// NewInventory wraps hosts, never producing a nil list.
func NewInventory(hosts []Host) *Inventory {
	if hosts == nil {
		hosts = []Host{}
	}
	return &Inventory{Hosts: hosts}
}
