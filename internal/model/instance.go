package model

import (
	"encoding/json"
	"fmt"
)

// MetadataDatacenter is the instance metadata key naming the datacenter
// the instance was provisioned in.
const MetadataDatacenter = "DATACENTER"

// Application is a logical grouping of services.
type Application struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	OwnerUUID string `json:"owner_uuid"`
}

// Instance is one running unit of a service within an application.
type Instance struct {
	UUID        string         `json:"uuid"`
	ServiceUUID string         `json:"service_uuid"`
	Type        string         `json:"type,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Datacenter returns the datacenter recorded in the instance metadata.
func (i Instance) Datacenter() (string, bool) {
	v, ok := i.Metadata[MetadataDatacenter].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ServiceInstances is the instance list of one service.
type ServiceInstances struct {
	ServiceUUID string
	Instances   []Instance
}

// ApplicationObjects is the subset of an application's object tree that
// discovery consumes. Services keep the order the orchestration service
// returned them in.
type ApplicationObjects struct {
	Services []ServiceInstances
}

func (o *ApplicationObjects) UnmarshalJSON(data []byte) error {
	return eachField(data, func(key string, raw json.RawMessage) error {
		if key != "instances" {
			return nil
		}
		o.Services = nil
		return eachField(raw, func(svc string, list json.RawMessage) error {
			var instances []Instance
			if err := json.Unmarshal(list, &instances); err != nil {
				return fmt.Errorf("instances of service %s: %w", svc, err)
			}
			o.Services = append(o.Services, ServiceInstances{ServiceUUID: svc, Instances: instances})
			return nil
		})
	})
}
