package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/directory"
	"github.com/nagyistge/manta-madtom/internal/model"
)

// Catalog is the flat, ordered instance list of one application.
type Catalog struct {
	Application model.Application
	Instances   []model.Instance
}

// Len returns the number of instances.
func (c *Catalog) Len() int {
	return len(c.Instances)
}

// FindApplication resolves the owner login and returns the first
// application of that name the owner has.
func FindApplication(ctx context.Context, svc Services, name, owner string) (model.Application, error) {
	log := ctxlog.FromContext(ctx).WithField("application", name)

	user, err := svc.Identity.GetUser(ctx, owner)
	if errors.Is(err, directory.ErrNotFound) {
		return model.Application{}, fmt.Errorf("user %s: %w", owner, ErrUserNotFound)
	}
	if err != nil {
		return model.Application{}, fmt.Errorf("looking up user %s: %w", owner, err)
	}
	log.WithField("owner_uuid", user.UUID).Debug("found application owner")

	apps, err := svc.Catalog.ListApplications(ctx, directory.ApplicationFilter{
		Name:          name,
		OwnerUUID:     user.UUID,
		IncludeMaster: true,
	})
	if err != nil {
		return model.Application{}, fmt.Errorf("listing applications: %w", err)
	}
	if len(apps) == 0 {
		return model.Application{}, fmt.Errorf("%s owned by %s: %w", name, owner, ErrApplicationNotFound)
	}
	log.WithField("uuid", apps[0].UUID).Debug("found application")
	return apps[0], nil
}

// ListInstances flattens every service's instances of app into one catalog.
// Instances keep the order the orchestration service returned; an instance
// listed twice stays at its first position and takes the later record.
func ListInstances(ctx context.Context, catalog ServiceCatalog, app model.Application) (*Catalog, error) {
	objs, err := catalog.GetApplicationObjects(ctx, app.UUID, directory.ObjectOptions{IncludeMaster: true})
	if errors.Is(err, directory.ErrNotFound) {
		return nil, fmt.Errorf("objects of %s: %w", app.UUID, ErrApplicationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting objects of application %s: %w", app.UUID, err)
	}

	c := &Catalog{Application: app}
	index := make(map[string]int)
	for _, svc := range objs.Services {
		for _, inst := range svc.Instances {
			if i, ok := index[inst.UUID]; ok {
				c.Instances[i] = inst
				continue
			}
			index[inst.UUID] = len(c.Instances)
			c.Instances = append(c.Instances, inst)
		}
	}

	ctxlog.FromContext(ctx).WithField("instances", len(c.Instances)).Debug("found instances")
	return c, nil
}
