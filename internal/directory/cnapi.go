package directory

import (
	"context"
	"net/url"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// ComputeDirectory looks up compute nodes in one datacenter.
type ComputeDirectory interface {
	GetServer(ctx context.Context, uuid string) (*model.Server, error)
}

// CNAPI is a client for one datacenter's compute node API.
type CNAPI struct {
	rest *restClient
}

func NewCNAPI(baseURL string, opts ClientOptions) *CNAPI {
	return &CNAPI{rest: newRESTClient("cnapi", baseURL, opts)}
}

func (c *CNAPI) GetServer(ctx context.Context, uuid string) (*model.Server, error) {
	var server model.Server
	if err := c.rest.getJSON(ctx, "GetServer", "/servers/"+url.PathEscape(uuid), nil, &server); err != nil {
		return nil, err
	}
	return &server, nil
}
