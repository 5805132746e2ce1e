package directory

import (
	"fmt"
	"sync"
)

// ServiceURL returns the address an SDC service is published at inside a
// datacenter.
func ServiceURL(service, datacenter, dnsDomain string) string {
	return fmt.Sprintf("http://%s.%s.%s", service, datacenter, dnsDomain)
}

// ClientPair is the set of per-datacenter inventory clients.
type ClientPair struct {
	Datacenter string
	CNAPI      *CNAPI
	VMAPI      *VMAPI
}

// ClientSet hands out one ClientPair per datacenter, built on first use and
// reused for the life of the set. Building a pair does no network I/O.
type ClientSet struct {
	dnsDomain string
	opts      ClientOptions

	mu    sync.Mutex
	pairs map[string]*ClientPair
}

func NewClientSet(dnsDomain string, opts ClientOptions) *ClientSet {
	return &ClientSet{
		dnsDomain: dnsDomain,
		opts:      opts,
		pairs:     make(map[string]*ClientPair),
	}
}

// ClientsFor returns the client pair of a datacenter.
func (s *ClientSet) ClientsFor(datacenter string) *ClientPair {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pairs[datacenter]; ok {
		return p
	}
	opts := s.opts
	if opts.Logger != nil {
		opts.Logger = opts.Logger.WithField("dc", datacenter)
	}
	p := &ClientPair{
		Datacenter: datacenter,
		CNAPI:      NewCNAPI(ServiceURL("cnapi", datacenter, s.dnsDomain), opts),
		VMAPI:      NewVMAPI(ServiceURL("vmapi", datacenter, s.dnsDomain), opts),
	}
	if opts.Logger != nil {
		opts.Logger.WithField("vmapi", p.VMAPI.rest.baseURL).WithField("cnapi", p.CNAPI.rest.baseURL).Debug("created datacenter clients")
	}
	s.pairs[datacenter] = p
	return p
}

// VMDirectory returns the VM API client of a datacenter.
func (s *ClientSet) VMDirectory(datacenter string) VMDirectory {
	return s.ClientsFor(datacenter).VMAPI
}

// ComputeDirectory returns the CNAPI client of a datacenter.
func (s *ClientSet) ComputeDirectory(datacenter string) ComputeDirectory {
	return s.ClientsFor(datacenter).CNAPI
}
