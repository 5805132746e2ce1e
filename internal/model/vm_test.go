package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVMRole(t *testing.T) {
	vm := &VM{Tags: map[string]any{"manta_role": "loadbalancer", "other": 3}}
	assert.Equal(t, "loadbalancer", vm.Role("manta_role"))
	assert.Equal(t, "", vm.Role("other"))
	assert.Equal(t, "", vm.Role("missing"))
	assert.Equal(t, "", (&VM{}).Role("manta_role"))

	var nilVM *VM
	assert.Equal(t, "", nilVM.Role("manta_role"))
}

func TestVMTaggedIP(t *testing.T) {
	vm := &VM{NICs: []NIC{
		{Tag: "admin", IP: "10.99.99.40"},
		{Tag: "manta", IP: "10.0.0.5"},
		{Tag: "manta", IP: "10.0.0.6"},
	}}

	ip, ok := vm.TaggedIP("manta")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.5", ip)

	_, ok = vm.TaggedIP("external")
	assert.False(t, ok)

	// The first tagged NIC decides, even without an address.
	vm = &VM{NICs: []NIC{{Tag: "manta"}, {Tag: "manta", IP: "10.0.0.7"}}}
	_, ok = vm.TaggedIP("manta")
	assert.False(t, ok)
}

func TestHostAddress(t *testing.T) {
	ip := "10.0.0.5"
	assert.Equal(t, "10.0.0.5", Host{IP: &ip}.Address())
	assert.Equal(t, "", Host{}.Address())
	assert.True(t, Host{HostType: HostTypeAgent}.IsAgent())
	assert.False(t, Host{HostType: "storage"}.IsAgent())
	assert.NotNil(t, NewInventory(nil).Hosts)
}
