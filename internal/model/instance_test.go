package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceDatacenter(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		want     string
		ok       bool
	}{
		{"present", map[string]any{"DATACENTER": "us-east-1"}, "us-east-1", true},
		{"missing", map[string]any{"SERVICE_NAME": "x"}, "", false},
		{"empty", map[string]any{"DATACENTER": ""}, "", false},
		{"not a string", map[string]any{"DATACENTER": 7}, "", false},
		{"nil metadata", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, ok := Instance{UUID: "i1", Metadata: tt.metadata}.Datacenter()
			assert.Equal(t, tt.want, dc)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestApplicationObjectsKeepServiceOrder(t *testing.T) {
	body := `{
	  "applications": {"a1": {"uuid": "a1", "name": "manta"}},
	  "services": {"svc-b": {}, "svc-a": {}},
	  "instances": {
	    "svc-b": [{"uuid": "i3", "service_uuid": "svc-b", "metadata": {"DATACENTER": "dc1"}}],
	    "svc-a": [
	      {"uuid": "i1", "service_uuid": "svc-a"},
	      {"uuid": "i2", "service_uuid": "svc-a", "type": "vm"}
	    ]
	  }
	}`

	var objs ApplicationObjects
	require.NoError(t, json.Unmarshal([]byte(body), &objs))

	require.Len(t, objs.Services, 2)
	assert.Equal(t, "svc-b", objs.Services[0].ServiceUUID)
	assert.Equal(t, "svc-a", objs.Services[1].ServiceUUID)
	require.Len(t, objs.Services[1].Instances, 2)
	assert.Equal(t, "i1", objs.Services[1].Instances[0].UUID)
	assert.Equal(t, "vm", objs.Services[1].Instances[1].Type)

	dc, ok := objs.Services[0].Instances[0].Datacenter()
	assert.True(t, ok)
	assert.Equal(t, "dc1", dc)
}

func TestApplicationObjectsWithoutInstances(t *testing.T) {
	var objs ApplicationObjects
	require.NoError(t, json.Unmarshal([]byte(`{"services": {}}`), &objs))
	assert.Empty(t, objs.Services)
}
