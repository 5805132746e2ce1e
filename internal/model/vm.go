package model

// VM is the runtime record of an instance's virtual machine.
type VM struct {
	UUID       string         `json:"uuid"`
	Alias      string         `json:"alias,omitempty"`
	State      string         `json:"state,omitempty"`
	ServerUUID string         `json:"server_uuid"`
	Tags       map[string]any `json:"tags,omitempty"`
	NICs       []NIC          `json:"nics"`
}

// NIC is a VM network interface.
type NIC struct {
	Tag string `json:"nic_tag"`
	IP  string `json:"ip"`
	MAC string `json:"mac,omitempty"`
}

// Role returns the VM's role as recorded under the given tag key. Tags
// that are absent or not strings count as no role.
func (vm *VM) Role(tagKey string) string {
	if vm == nil {
		return ""
	}
	role, _ := vm.Tags[tagKey].(string)
	return role
}

// TaggedIP returns the address of the first NIC on the given network tag.
// ok is false when no NIC carries the tag or the first one that does has
// no address.
func (vm *VM) TaggedIP(tag string) (ip string, ok bool) {
	for _, nic := range vm.NICs {
		if nic.Tag == tag {
			return nic.IP, nic.IP != ""
		}
	}
	return "", false
}
