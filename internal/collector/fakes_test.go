package collector

import (
	"context"
	"errors"
	"sync"

	"github.com/nagyistge/manta-madtom/internal/directory"
	"github.com/nagyistge/manta-madtom/internal/model"
)

type fakeFault struct {
	msg       string
	transient bool
}

func (f *fakeFault) Error() string   { return f.msg }
func (f *fakeFault) Transient() bool { return f.transient }

var (
	errReset   = &fakeFault{msg: "read: connection reset by peer", transient: true}
	errBadGate = &fakeFault{msg: "vmapi: 502 bad gateway"}
)

type fakeIdentity struct {
	datacenters []model.Datacenter
	users       map[string]string
	err         error
}

func (f *fakeIdentity) ListDatacenters(ctx context.Context, region string) ([]model.Datacenter, error) {
	return f.datacenters, f.err
}

func (f *fakeIdentity) GetUser(ctx context.Context, login string) (*model.User, error) {
	uuid, ok := f.users[login]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return &model.User{UUID: uuid, Login: login}, nil
}

type fakeCatalog struct {
	apps    []model.Application
	objects *model.ApplicationObjects
	filter  directory.ApplicationFilter
}

func (f *fakeCatalog) ListApplications(ctx context.Context, filter directory.ApplicationFilter) ([]model.Application, error) {
	f.filter = filter
	return f.apps, nil
}

func (f *fakeCatalog) GetApplicationObjects(ctx context.Context, appUUID string, opts directory.ObjectOptions) (*model.ApplicationObjects, error) {
	if f.objects == nil {
		return nil, directory.ErrNotFound
	}
	return f.objects, nil
}

// fakeVMs answers from a fixed table. A queued error list is consumed one
// entry per call before the table is consulted.
type fakeVMs struct {
	mu     sync.Mutex
	vms    map[string]*model.VM
	queued map[string][]error
	calls  map[string]int
}

func (f *fakeVMs) GetVM(ctx context.Context, uuid string) (*model.VM, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[uuid]++
	if q := f.queued[uuid]; len(q) > 0 {
		f.queued[uuid] = q[1:]
		if q[0] != nil {
			return nil, q[0]
		}
	}
	vm, ok := f.vms[uuid]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return vm, nil
}

func (f *fakeVMs) Calls(uuid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uuid]
}

type fakeServers struct {
	mu      sync.Mutex
	servers map[string]*model.Server
	err     error
	calls   int
}

func (f *fakeServers) GetServer(ctx context.Context, uuid string) (*model.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	srv, ok := f.servers[uuid]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return srv, nil
}

type fakeClients struct {
	vms     map[string]*fakeVMs
	servers map[string]*fakeServers
}

func newFakeClients(dcs ...string) *fakeClients {
	c := &fakeClients{vms: map[string]*fakeVMs{}, servers: map[string]*fakeServers{}}
	for _, dc := range dcs {
		c.vms[dc] = &fakeVMs{vms: map[string]*model.VM{}, queued: map[string][]error{}}
		c.servers[dc] = &fakeServers{servers: map[string]*model.Server{}}
	}
	return c
}

func (c *fakeClients) VMDirectory(dc string) directory.VMDirectory {
	return c.vms[dc]
}

func (c *fakeClients) ComputeDirectory(dc string) directory.ComputeDirectory {
	return c.servers[dc]
}

func instance(uuid, dc string) model.Instance {
	inst := model.Instance{UUID: uuid, Metadata: map[string]any{}}
	if dc != "" {
		inst.Metadata[model.MetadataDatacenter] = dc
	}
	return inst
}

func vm(uuid, server, role string, nics ...model.NIC) *model.VM {
	v := &model.VM{UUID: uuid, ServerUUID: server, NICs: nics, Tags: map[string]any{}}
	if role != "" {
		v.Tags["manta_role"] = role
	}
	return v
}

func topology(names ...string) *Topology {
	t := &Topology{Region: "us-east"}
	for _, n := range names {
		t.Datacenters = append(t.Datacenters, model.Datacenter{Name: n})
	}
	return t
}

func defaultRoles() Roles {
	return Roles{Tag: "manta_role", Compute: "compute", Self: "madtom"}
}

var errUnreachable = errors.New("dial tcp: no route to host")
