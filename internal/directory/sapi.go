package directory

import (
	"context"
	"net/url"
	"strconv"

	"github.com/nagyistge/manta-madtom/internal/model"
)

// ApplicationFilter narrows ListApplications. Empty fields are not sent.
type ApplicationFilter struct {
	Name          string
	OwnerUUID     string
	IncludeMaster bool
}

// ObjectOptions tunes GetApplicationObjects.
type ObjectOptions struct {
	IncludeMaster bool
}

// SAPI is a client for the services API, the region-local orchestration
// service that defines applications, services and instances.
type SAPI struct {
	rest *restClient
}

func NewSAPI(baseURL string, opts ClientOptions) *SAPI {
	return &SAPI{rest: newRESTClient("sapi", baseURL, opts)}
}

// ListApplications returns the applications matching filter.
func (s *SAPI) ListApplications(ctx context.Context, filter ApplicationFilter) ([]model.Application, error) {
	q := url.Values{}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.OwnerUUID != "" {
		q.Set("owner_uuid", filter.OwnerUUID)
	}
	if filter.IncludeMaster {
		q.Set("include_master", strconv.FormatBool(true))
	}
	var apps []model.Application
	if err := s.rest.getJSON(ctx, "ListApplications", "/applications", q, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApplicationObjects returns the services and instances of an
// application.
func (s *SAPI) GetApplicationObjects(ctx context.Context, appUUID string, opts ObjectOptions) (*model.ApplicationObjects, error) {
	q := url.Values{}
	if opts.IncludeMaster {
		q.Set("include_master", strconv.FormatBool(true))
	}
	var objs model.ApplicationObjects
	path := "/applications/" + url.PathEscape(appUUID) + "/objects"
	if err := s.rest.getJSON(ctx, "GetApplicationObjects", path, q, &objs); err != nil {
		return nil, err
	}
	return &objs, nil
}
