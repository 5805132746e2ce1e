package render

import (
	"strings"
	"testing"

	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func sampleHosts() []model.Host {
	return []model.Host{
		{HostType: "loadbalancer", IP: strptr("10.0.0.5"), UUID: "a1b2c3d4-0001", Datacenter: "us-east-1", Server: "44454c4c-4400"},
		{HostType: "postgres", IP: strptr("10.0.0.7"), UUID: "a1b2c3d4-0002", Datacenter: "us-east-2", Server: "44454c4c-4800"},
		{HostType: "webapi", IP: strptr("10.0.0.6"), UUID: "a1b2c3d4-0003", Datacenter: "us-east-1", Server: "44454c4c-4400"},
		{HostType: model.HostTypeAgent, IP: strptr("10.0.1.9"), UUID: "44454c4c-4800", Datacenter: "us-east-2", Server: "44454c4c-4800"},
		{HostType: model.HostTypeAgent, UUID: "44454c4c-4c00", Datacenter: "us-east-2", Server: "44454c4c-4c00"},
	}
}

func TestD2RendererBasic(t *testing.T) {
	out, err := (&D2Renderer{}).Render(sampleHosts())
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "direction: right\n"))
	assert.Contains(t, s, `us-east-1: "us-east-1" {`)
	assert.Contains(t, s, `  44454c4c-4400: "server 44454c4c" {`)
	assert.Contains(t, s, `    a1b2c3d4-0001: "loadbalancer\n10.0.0.5" {`)
	assert.Contains(t, s, `    agent: "agent\n10.0.1.9" {`)
	assert.Contains(t, s, "shape: cylinder")
	assert.Contains(t, s, "icon: "+LookupIcon("postgres"))

	// datacenters and servers appear in first-seen order
	assert.Less(t, strings.Index(s, "us-east-1:"), strings.Index(s, "us-east-2:"))
	assert.Less(t, strings.Index(s, "44454c4c-4800:"), strings.Index(s, "44454c4c-4c00:"))
	// both hosts of the shared server are nested under one block
	assert.Equal(t, 1, strings.Count(s, "44454c4c-4400:"))
}

func TestD2RendererUnresolvedAgent(t *testing.T) {
	out, err := (&D2Renderer{Theme: "dark", Direction: "down"}).Render(sampleHosts()[4:])
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, "direction: down")
	assert.Contains(t, s, `agent: "agent" {`)
	assert.Contains(t, s, "style.stroke-dash: 3")
	assert.Contains(t, s, GetTheme("dark").ColorFor("unresolved").Fill)
}

func TestD2RendererEmpty(t *testing.T) {
	out, err := (&D2Renderer{}).Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "direction: right\n\n", string(out))
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"us-east-1", "us-east-1"},
		{"10.0.0.5", "10-0-0-5"},
		{"my server", "my-server"},
		{"special@chars!", "specialchars"},
		{"", "unknown"},
		{"MixedCase", "mixedcase"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeID(tt.input))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"hello"`, quote("hello"))
	assert.Equal(t, `"say \"hi\""`, quote(`say "hi"`))
}

func TestGetThemeFallback(t *testing.T) {
	assert.Equal(t, "default", GetTheme("nope").Name)
	for _, name := range ThemeNames() {
		assert.Equal(t, name, GetTheme(name).Name)
	}
}
