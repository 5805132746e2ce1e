package collector

import (
	"testing"

	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sysinfoServer(phys []model.PhysicalNIC, virt []model.VirtualNIC) *model.Server {
	return &model.Server{UUID: "s1", Sysinfo: model.Sysinfo{
		DatacenterName:    "dc2",
		NetworkInterfaces: phys,
		VirtualInterfaces: virt,
	}}
}

func TestSelectAddress(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		srv  *model.Server
		want string // empty means nil
	}{
		{
			name: "physical address",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{
				{Label: "ixgbe0", Names: []string{"admin"}, IP: "10.99.0.4"},
				{Label: "ixgbe1", Names: []string{"external", "manta"}, IP: "10.0.1.4"},
			}, nil),
			want: "10.0.1.4",
		},
		{
			name: "first tagged physical nic decides",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{
				{Label: "ixgbe0", Names: []string{"manta"}},
				{Label: "ixgbe1", Names: []string{"manta"}, IP: "10.0.1.4"},
			}, nil),
		},
		{
			name: "virtual fallback",
			tag:  "manta_nic",
			srv: sysinfoServer([]model.PhysicalNIC{
				{Label: "aggr0", Names: []string{"manta_nic"}},
			}, []model.VirtualNIC{
				{Label: "manta_nic0", HostInterface: "aggr1", IP: "10.0.9.9"},
				{Label: "external0", HostInterface: "aggr0", IP: "192.168.1.1"},
				{Label: "manta_nic0", HostInterface: "aggr0", IP: "10.0.1.9"},
				{Label: "manta_nic1", HostInterface: "aggr0", IP: "10.0.1.10"},
			}),
			want: "10.0.1.9",
		},
		{
			name: "virtual label is a prefix match",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{
				{Label: "aggr0", Names: []string{"manta"}},
			}, []model.VirtualNIC{
				{Label: "manta_vlan4", HostInterface: "aggr0", IP: "10.0.4.2"},
			}),
			want: "10.0.4.2",
		},
		{
			name: "physical ip wins over virtual",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{
				{Label: "aggr0", Names: []string{"manta"}, IP: "10.0.0.2"},
			}, []model.VirtualNIC{
				{Label: "manta0", HostInterface: "aggr0", IP: "10.0.4.2"},
			}),
			want: "10.0.0.2",
		},
		{
			name: "no tagged physical nic",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{{Label: "aggr0", Names: []string{"admin"}, IP: "10.99.0.2"}},
				[]model.VirtualNIC{{Label: "manta0", HostInterface: "aggr0", IP: "10.0.4.2"}}),
		},
		{
			name: "no matching virtual nic",
			tag:  "manta",
			srv: sysinfoServer([]model.PhysicalNIC{{Label: "aggr0", Names: []string{"manta"}}},
				[]model.VirtualNIC{{Label: "manta0", HostInterface: "aggr1", IP: "10.0.4.2"}}),
		},
		{
			name: "nil server",
			tag:  "manta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectAddress(tt.tag, tt.srv)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)

			again := SelectAddress(tt.tag, tt.srv)
			require.NotNil(t, again)
			assert.Equal(t, *got, *again)
		})
	}
}
