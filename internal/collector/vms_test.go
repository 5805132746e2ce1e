package collector

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nagyistge/manta-madtom/internal/metrics"
	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVMResolver(clients *fakeClients, policy RetryPolicy) (*VMResolver, *[]time.Duration) {
	var waits []time.Duration
	r := &VMResolver{
		Topology: topology("dc1", "dc2"),
		Clients:  clients,
		Retry:    policy,
		sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return ctx.Err()
		},
	}
	return r, &waits
}

func TestResolveVM(t *testing.T) {
	clients := newFakeClients("dc1", "dc2")
	clients.vms["dc2"].vms["i1"] = vm("i1", "s1", "storage")

	r, waits := newVMResolver(clients, RetryPolicy{MaxAttempts: 10})
	got, err := r.Resolve(context.Background(), instance("i1", "dc2"))
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ServerUUID)
	assert.Equal(t, 0, clients.vms["dc1"].Calls("i1"), "only the instance's datacenter is asked")
	assert.Empty(t, *waits)
}

func TestResolveVMRetriesTransientFaultOnce(t *testing.T) {
	clients := newFakeClients("dc1", "dc2")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	clients.vms["dc1"].queued["i1"] = []error{errReset}

	r, waits := newVMResolver(clients, RetryPolicy{MaxAttempts: 10, MinBackoff: time.Millisecond, MaxBackoff: time.Second})
	r.Metrics = metrics.New()

	got, err := r.Resolve(context.Background(), instance("i1", "dc1"))
	require.NoError(t, err)
	assert.Equal(t, "i1", got.UUID)
	assert.Equal(t, 2, clients.vms["dc1"].Calls("i1"))
	assert.Equal(t, []time.Duration{time.Millisecond}, *waits)
	assert.NoError(t, testutil.GatherAndCompare(r.Metrics.Registry(), strings.NewReader(`
# HELP checker_hosts_transient_retries_total Lookups retried after a transient fault.
# TYPE checker_hosts_transient_retries_total counter
checker_hosts_transient_retries_total{service="vmapi"} 1
`), "checker_hosts_transient_retries_total"))
}

func TestResolveVMFatalFaultNotRetried(t *testing.T) {
	clients := newFakeClients("dc1")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	clients.vms["dc1"].queued["i1"] = []error{errBadGate}

	r, waits := newVMResolver(clients, RetryPolicy{})
	r.Topology = topology("dc1")

	_, err := r.Resolve(context.Background(), instance("i1", "dc1"))
	assert.ErrorIs(t, err, errBadGate)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, clients.vms["dc1"].Calls("i1"))
	assert.Empty(t, *waits)
}

func TestResolveVMRetriesExhausted(t *testing.T) {
	clients := newFakeClients("dc1")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	clients.vms["dc1"].queued["i1"] = []error{errReset, errReset, errReset, errReset}

	r, waits := newVMResolver(clients, RetryPolicy{MaxAttempts: 3})
	r.Topology = topology("dc1")

	_, err := r.Resolve(context.Background(), instance("i1", "dc1"))
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, errReset)
	assert.Equal(t, 3, clients.vms["dc1"].Calls("i1"))
	assert.Len(t, *waits, 2)
}

func TestResolveVMUnlimitedRetries(t *testing.T) {
	clients := newFakeClients("dc1")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	faults := make([]error, 25)
	for i := range faults {
		faults[i] = errReset
	}
	clients.vms["dc1"].queued["i1"] = faults

	r, _ := newVMResolver(clients, RetryPolicy{MaxAttempts: 0})
	r.Topology = topology("dc1")

	_, err := r.Resolve(context.Background(), instance("i1", "dc1"))
	require.NoError(t, err)
	assert.Equal(t, 26, clients.vms["dc1"].Calls("i1"))
}

func TestResolveVMStopsOnCancel(t *testing.T) {
	clients := newFakeClients("dc1")
	clients.vms["dc1"].queued["i1"] = []error{errReset, errReset}

	ctx, cancel := context.WithCancel(context.Background())
	r, _ := newVMResolver(clients, RetryPolicy{MaxAttempts: 0})
	r.Topology = topology("dc1")
	r.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := r.Resolve(ctx, instance("i1", "dc1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, clients.vms["dc1"].Calls("i1"))
}

func TestResolveVMBadMetadata(t *testing.T) {
	clients := newFakeClients("dc1")
	r, _ := newVMResolver(clients, RetryPolicy{MaxAttempts: 3})

	_, err := r.Resolve(context.Background(), instance("i1", ""))
	assert.ErrorIs(t, err, ErrMissingDatacenterMetadata)

	_, err = r.Resolve(context.Background(), instance("i1", "eu-central-1"))
	assert.ErrorIs(t, err, ErrUnknownDatacenter)
	assert.Equal(t, 0, clients.vms["dc1"].Calls("i1"))
}

func TestResolveAllVMs(t *testing.T) {
	clients := newFakeClients("dc1", "dc2")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	clients.vms["dc2"].vms["i2"] = vm("i2", "s2", "compute")
	catalog := &Catalog{Instances: []model.Instance{instance("i1", "dc1"), instance("i2", "dc2")}}

	r, _ := newVMResolver(clients, RetryPolicy{MaxAttempts: 3})
	set, err := r.ResolveAll(context.Background(), catalog, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	got, ok := set.Get("i2")
	require.True(t, ok)
	assert.Equal(t, "s2", got.ServerUUID)
}

func TestResolveAllVMsFailsFast(t *testing.T) {
	clients := newFakeClients("dc1")
	clients.vms["dc1"].vms["i1"] = vm("i1", "s1", "storage")
	catalog := &Catalog{Instances: []model.Instance{instance("i1", "dc1"), instance("i2", "")}}

	r, _ := newVMResolver(clients, RetryPolicy{MaxAttempts: 3})
	r.Topology = topology("dc1")
	set, err := r.ResolveAll(context.Background(), catalog, 0)
	assert.ErrorIs(t, err, ErrMissingDatacenterMetadata)
	assert.Nil(t, set)
}
