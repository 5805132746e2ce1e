package directory

import (
	"context"
	"net/url"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// VMDirectory looks up VMs in one datacenter.
type VMDirectory interface {
	GetVM(ctx context.Context, uuid string) (*model.VM, error)
}

// VMAPI is a client for one datacenter's VM API.
type VMAPI struct {
	rest *restClient
}

func NewVMAPI(baseURL string, opts ClientOptions) *VMAPI {
	return &VMAPI{rest: newRESTClient("vmapi", baseURL, opts)}
}

func (v *VMAPI) GetVM(ctx context.Context, uuid string) (*model.VM, error) {
	var vm model.VM
	if err := v.rest.getJSON(ctx, "GetVM", "/vms/"+url.PathEscape(uuid), nil, &vm); err != nil {
		return nil, err
	}
	return &vm, nil
}
