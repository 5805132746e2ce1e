package collector

import (
	"context"

	"github.com/nagyistge/manta-madtom/internal/directory"
	"github.com/nagyistge/manta-madtom/internal/model"
)

// IdentityDirectory is the region-wide user and datacenter directory.
type IdentityDirectory interface {
	ListDatacenters(ctx context.Context, region string) ([]model.Datacenter, error)
	GetUser(ctx context.Context, login string) (*model.User, error)
}

// ServiceCatalog is the orchestration service defining applications.
type ServiceCatalog interface {
	ListApplications(ctx context.Context, filter directory.ApplicationFilter) ([]model.Application, error)
	GetApplicationObjects(ctx context.Context, appUUID string, opts directory.ObjectOptions) (*model.ApplicationObjects, error)
}

// DatacenterClients hands out the per-datacenter inventory clients.
// *directory.ClientSet implements it.
type DatacenterClients interface {
	VMDirectory(datacenter string) directory.VMDirectory
	ComputeDirectory(datacenter string) directory.ComputeDirectory
}

// Services are the remote collaborators of a discovery run.
type Services struct {
	Identity IdentityDirectory
	Catalog  ServiceCatalog
	Clients  DatacenterClients
}
