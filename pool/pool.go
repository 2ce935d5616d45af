package pool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	weighted "github.com/smallnest/weighted-rs"
)

// Supported selection methods.
const (
	MethodRandom     = "random"
	MethodRoundRobin = "round-robin"
	MethodSmooth     = "smooth"
)

// ErrUnknownMethod is returned for an unsupported selection method.
var ErrUnknownMethod = errors.New("unknown pool method")

// Peer represents a backend server.
type Peer struct {
	addr   string
	weight int
	down   bool
}

func (p *Peer) String() string {
	return fmt.Sprintf("%s: (w=%d, down=%v)", p.addr, p.weight, p.down)
}

// Pool is a group of Peers, one Peer can not belong to multiple Pool.
type Pool struct {
	sync.RWMutex
	method   string
	peers    []*Peer
	selector weighted.Selector[string]
	downNum  int
}

// New returns an empty Pool using the given selection method.
func New(method string) (*Pool, error) {
	selector, err := newSelector(method)
	if err != nil {
		return nil, err
	}
	return &Pool{
		method:   method,
		selector: selector,
	}, nil
}

// CreatePool returns a Pool populated with the addr->weight pairs.
func CreatePool(method string, pairs map[string]int) (*Pool, error) {
	pool, err := New(method)
	if err != nil {
		return nil, err
	}
	for addr, weight := range pairs {
		pool.Add(addr, weight)
	}
	return pool, nil
}

func newSelector(method string) (weighted.Selector[string], error) {
	switch method {
	case MethodRandom:
		return weighted.NewRandom[string](), nil
	case MethodRoundRobin:
		return weighted.NewRoundRobin[string](), nil
	case MethodSmooth, "":
		return weighted.NewSmooth[string](), nil
	}
	return nil, ErrUnknownMethod
}

func (p *Pool) String() string {
	p.RLock()
	defer p.RUnlock()
	result := []string{}
	for _, peer := range p.peers {
		result = append(result, peer.addr)
	}
	sort.Strings(result)
	return strings.Join(result, ", ")
}

// Size returns the number of peers.
func (p *Pool) Size() int {
	p.RLock()
	defer p.RUnlock()
	return len(p.peers)
}

// Method returns the selection method of the pool.
func (p *Pool) Method() string {
	return p.method
}

func (p *Pool) indexOfPeer(addr string) int {
	for i, peer := range p.peers {
		if peer.addr == addr {
			return i
		}
	}
	return -1
}

// rebuild reloads the selector from the peers currently up.
// Callers must hold the write lock.
func (p *Pool) rebuild() {
	p.selector.RemoveAll()
	for _, peer := range p.peers {
		if !peer.down {
			p.selector.Add(peer.addr, peer.weight)
		}
	}
}

// Add appends a peer to the pool if not exists, default weight is 1.
func (p *Pool) Add(addr string, args ...interface{}) {
	if addr == "" {
		return
	}
	weight := 1
	if len(args) > 0 {
		if w, ok := args[0].(int); ok {
			weight = w
		}
	}

	p.Lock()
	defer p.Unlock()

	if idx := p.indexOfPeer(addr); idx >= 0 {
		if p.peers[idx].weight == weight {
			return
		}
		log.Infof("Peer %s weight %d -> %d", addr, p.peers[idx].weight, weight)
		p.peers[idx].weight = weight
	} else {
		p.peers = append(p.peers, &Peer{addr: addr, weight: weight})
	}
	p.rebuild()
}

// Remove removes the peer from the pool.
func (p *Pool) Remove(addr string) {
	if addr == "" {
		return
	}
	p.Lock()
	defer p.Unlock()

	idx := p.indexOfPeer(addr)
	if idx < 0 {
		return
	}
	if p.peers[idx].down {
		p.downNum--
	}
	p.peers = append(p.peers[:idx], p.peers[idx+1:]...)
	p.rebuild()
}

func (p *Pool) setPeerStatus(addr string, isDown bool) {
	p.Lock()
	defer p.Unlock()

	idx := p.indexOfPeer(addr)
	if idx < 0 {
		return
	}
	peer := p.peers[idx]
	if peer.down == isDown {
		return
	}
	peer.down = isDown
	if isDown {
		p.downNum++
	} else {
		p.downNum--
	}
	p.rebuild()
}

// DownPeer marks the peer down, it is kept but no longer selected.
func (p *Pool) DownPeer(addr string) {
	p.setPeerStatus(addr, true)
}

// UpPeer marks the peer up.
func (p *Pool) UpPeer(addr string) {
	p.setPeerStatus(addr, false)
}

// Get returns the next peer address, or "" if nothing is eligible.
func (p *Pool) Get() string {
	p.Lock()
	defer p.Unlock()

	addr, ok := p.selector.Next()
	if !ok {
		return ""
	}
	return addr
}

// Reset restarts the fairness cycle without losing the configuration.
func (p *Pool) Reset() {
	p.Lock()
	defer p.Unlock()
	p.selector.Reset()
}
