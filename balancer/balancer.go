package balancer

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/smallnest/weighted-rs/config"
)

// Balancer manages a set of virtual servers.
type Balancer struct {
	sync.RWMutex
	VServers []*VirtualServer
}

// New builds a Balancer from virtual server configurations.
func New(vss []config.VirtualServer) (*Balancer, error) {
	b := &Balancer{}
	for i := range vss {
		vs, err := newVirtualServer(&vss[i])
		if err != nil {
			return nil, err
		}
		b.VServers = append(b.VServers, vs)
	}
	return b, nil
}

func newVirtualServer(cvs *config.VirtualServer) (*VirtualServer, error) {
	return NewVirtualServer(
		NameOpt(cvs.Name),
		AddressOpt(cvs.Address),
		ServerNameOpt(cvs.ServerName),
		ProtocolOpt(cvs.Protocol),
		RetryOpt(cvs.Retry),
		PoolOpt(cvs.LBMethod, cvs.Pool),
	)
}

// Run starts every virtual server.
func (b *Balancer) Run() error {
	b.RLock()
	defer b.RUnlock()
	for _, vs := range b.VServers {
		if err := vs.Run(); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops every virtual server.
func (b *Balancer) Stop() error {
	b.RLock()
	defer b.RUnlock()
	for _, vs := range b.VServers {
		if err := vs.Stop(); err != nil {
			return err
		}
	}
	return nil
}

// FindVirtualServer looks a virtual server up by name.
func (b *Balancer) FindVirtualServer(name string) (*VirtualServer, error) {
	b.RLock()
	defer b.RUnlock()
	for _, vs := range b.VServers {
		if vs.Name == name {
			return vs, nil
		}
	}
	return nil, ErrVirtualServerNotFound
}

// AddVirtualServer creates a virtual server from its configuration
// and starts it.
func (b *Balancer) AddVirtualServer(cvs *config.VirtualServer) error {
	b.Lock()
	defer b.Unlock()
	for _, vs := range b.VServers {
		if vs.Name == cvs.Name {
			return ErrVirtualServerNameExisted
		}
		if vs.Address == cvs.Address {
			return ErrVirtualServerAddressExisted
		}
	}

	vs, err := newVirtualServer(cvs)
	if err != nil {
		return err
	}
	if err := vs.Run(); err != nil {
		return err
	}
	log.Infof("Add virtual server %s on %s, method %s", vs.Name, vs.Address, vs.LBMethod)
	b.VServers = append(b.VServers, vs)
	return nil
}
