package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cnapiServer = `{
  "uuid": "s1",
  "hostname": "RA10146",
  "sysinfo": {
    "Datacenter Name": "dc2",
    "Network Interfaces": {
      "ixgbe1": {"MAC Address": "90:e2:ba:00:00:02", "ip4addr": "", "NIC Names": ["manta_nic"]},
      "ixgbe0": {"MAC Address": "90:e2:ba:00:00:01", "ip4addr": "10.99.99.7", "NIC Names": ["admin"]}
    },
    "Virtual Network Interfaces": {
      "manta_nic0": {"MAC Address": "02:08:20:00:00:01", "ip4addr": "10.0.1.9", "Host Interface": "manta_nic", "VLAN": 3104}
    }
  }
}`

func TestServerUnmarshal(t *testing.T) {
	var s Server
	require.NoError(t, json.Unmarshal([]byte(cnapiServer), &s))

	assert.Equal(t, "s1", s.UUID)
	assert.Equal(t, "RA10146", s.Hostname)
	assert.Equal(t, "dc2", s.Datacenter())

	// Document order, not alphabetical.
	require.Len(t, s.Sysinfo.NetworkInterfaces, 2)
	assert.Equal(t, "ixgbe1", s.Sysinfo.NetworkInterfaces[0].Label)
	assert.Equal(t, []string{"manta_nic"}, s.Sysinfo.NetworkInterfaces[0].Names)
	assert.Equal(t, "", s.Sysinfo.NetworkInterfaces[0].IP)
	assert.Equal(t, "ixgbe0", s.Sysinfo.NetworkInterfaces[1].Label)
	assert.Equal(t, "10.99.99.7", s.Sysinfo.NetworkInterfaces[1].IP)

	require.Len(t, s.Sysinfo.VirtualInterfaces, 1)
	vnic := s.Sysinfo.VirtualInterfaces[0]
	assert.Equal(t, "manta_nic0", vnic.Label)
	assert.Equal(t, "manta_nic", vnic.HostInterface)
	assert.Equal(t, "10.0.1.9", vnic.IP)
}

func TestServerUnmarshalWithoutInterfaces(t *testing.T) {
	var s Server
	require.NoError(t, json.Unmarshal([]byte(`{"uuid": "s9", "sysinfo": {"Datacenter Name": "dc1"}}`), &s))
	assert.Equal(t, "dc1", s.Datacenter())
	assert.Empty(t, s.Sysinfo.NetworkInterfaces)
	assert.Empty(t, s.Sysinfo.VirtualInterfaces)
}

func TestServerUnmarshalBadInterface(t *testing.T) {
	var s Server
	err := json.Unmarshal([]byte(`{"uuid": "s9", "sysinfo": {"Network Interfaces": {"e0": {"NIC Names": "admin"}}}}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network interface e0")
}

func TestPhysicalNICHasName(t *testing.T) {
	nic := PhysicalNIC{Names: []string{"admin", "manta"}}
	assert.True(t, nic.HasName("manta"))
	assert.False(t, nic.HasName("mant"))
	assert.False(t, PhysicalNIC{}.HasName("manta"))
}
