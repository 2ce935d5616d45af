package balancer

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/smallnest/weighted-rs/config"
	"github.com/smallnest/weighted-rs/pool"
	"github.com/smallnest/weighted-rs/retry"
	"github.com/smallnest/weighted-rs/stats"
)

const (
	PROTO_HTTP = "http"

	STATUS_ENABLED  = "enabled"
	STATUS_DISABLED = "disabled"
)

// VirtualServer listens on one address and dispatches requests to its
// pool of backend peers.
type VirtualServer struct {
	sync.RWMutex
	Name       string
	Address    string
	ServerName string
	Protocol   string
	LBMethod   string
	Pool       *pool.Pool

	ReverseProxy map[string]*httputil.ReverseProxy
	ServerStats  map[string]*stats.Stats

	retryEnabled bool
	server       *http.Server
	status       string
}

type VirtualServerOption func(*VirtualServer) error

func NameOpt(name string) VirtualServerOption {
	return func(vs *VirtualServer) error {
		if name == "" {
			return ErrVirtualServerNameEmpty
		}
		vs.Name = name
		return nil
	}
}

func AddressOpt(addr string) VirtualServerOption {
	return func(vs *VirtualServer) error {
		if addr == "" {
			return ErrVirtualServerAddressEmpty
		}
		vs.Address = addr
		return nil
	}
}

func ServerNameOpt(serverName string) VirtualServerOption {
	return func(vs *VirtualServer) error {
		if serverName == "" {
			serverName = "localhost"
		}
		vs.ServerName = serverName
		return nil
	}
}

func ProtocolOpt(proto string) VirtualServerOption {
	return func(vs *VirtualServer) error {
		if proto == "" {
			proto = PROTO_HTTP
		}
		if proto != PROTO_HTTP {
			return ErrNotSupportedProto
		}
		vs.Protocol = proto
		return nil
	}
}

func RetryOpt(enabled bool) VirtualServerOption {
	return func(vs *VirtualServer) error {
		vs.retryEnabled = enabled
		return nil
	}
}

func LBMethodOpt(method string) VirtualServerOption {
	return func(vs *VirtualServer) error {
		return PoolOpt(method, nil)(vs)
	}
}

func PoolOpt(method string, peers []config.Server) VirtualServerOption {
	return func(vs *VirtualServer) error {
		if method == "" {
			method = pool.MethodRoundRobin
		}
		pairs := make(map[string]int)
		for _, peer := range peers {
			weight := peer.Weight
			if weight <= 0 {
				weight = 1
			}
			pairs[peer.Address] = weight
		}
		p, err := pool.CreatePool(method, pairs)
		if err != nil {
			return ErrNotSupportedMethod
		}
		vs.LBMethod = method
		vs.Pool = p
		return nil
	}
}

// NewVirtualServer returns a VirtualServer configured by opts.
func NewVirtualServer(opts ...VirtualServerOption) (*VirtualServer, error) {
	vs := &VirtualServer{
		ServerName:   "localhost",
		Protocol:     PROTO_HTTP,
		ReverseProxy: make(map[string]*httputil.ReverseProxy),
		ServerStats:  make(map[string]*stats.Stats),
		status:       STATUS_DISABLED,
	}
	for _, opt := range opts {
		if err := opt(vs); err != nil {
			return nil, err
		}
	}
	if vs.Name == "" {
		return nil, ErrVirtualServerNameEmpty
	}
	if vs.Address == "" {
		return nil, ErrVirtualServerAddressEmpty
	}
	if vs.Pool == nil {
		if err := PoolOpt("", nil)(vs); err != nil {
			return nil, err
		}
	}
	return vs, nil
}

func (s *VirtualServer) proxy(peer string) (*httputil.ReverseProxy, error) {
	s.Lock()
	defer s.Unlock()

	rp, ok := s.ReverseProxy[peer]
	if !ok {
		target, err := url.Parse("http://" + peer)
		if err != nil {
			return nil, err
		}
		rp = httputil.NewSingleHostReverseProxy(target)
		s.ReverseProxy[peer] = rp
	}
	return rp, nil
}

func (s *VirtualServer) statsOf(peer string) *stats.Stats {
	s.Lock()
	defer s.Unlock()

	st, ok := s.ServerStats[peer]
	if !ok {
		st = stats.New()
		s.ServerStats[peer] = st
	}
	return st
}

// statsResponseWriter captures the response code and size.
type statsResponseWriter struct {
	http.ResponseWriter
	code     int
	outBytes uint64
}

func (w *statsResponseWriter) WriteHeader(statusCode int) {
	if w.code == 0 {
		w.code = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statsResponseWriter) Write(data []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(data)
	w.outBytes += uint64(n)
	return n, err
}

// ServeHTTP dispatches the request to a backend peer.
func (s *VirtualServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Host != s.ServerName {
		log.Errorf("Host not match, host=%s", r.Host)
		WriteError(w, ErrHostNotMatch)
		return
	}

	peer := s.Pool.Get()
	if peer == "" {
		log.Errorf("Peer not found")
		WriteError(w, ErrPeerNotFound)
		return
	}

	rp, err := s.proxy(peer)
	if err != nil {
		log.Errorf("url.Parse peer=%s, error=%v", peer, err)
		WriteError(w, ErrInternalBalancer)
		return
	}

	sw := &statsResponseWriter{ResponseWriter: w}
	rp.ServeHTTP(sw, r)

	inBytes := uint64(0)
	if r.ContentLength > 0 {
		inBytes = uint64(r.ContentLength)
	}
	s.statsOf(peer).Inc(&stats.Data{
		StatusCode: strconv.Itoa(sw.code),
		Method:     r.Method,
		Path:       r.URL.Path,
		InBytes:    inBytes,
		OutBytes:   sw.outBytes,
	})
}

// Run starts serving requests, it is a no-op if already enabled.
func (s *VirtualServer) Run() error {
	s.Lock()
	defer s.Unlock()

	if s.status == STATUS_ENABLED {
		return nil
	}
	if s.Protocol != PROTO_HTTP {
		return ErrNotSupportedProto
	}

	var handler http.Handler = s
	if s.retryEnabled {
		handler = retry.Retry(handler)
	}

	ln, err := net.Listen("tcp", s.Address)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler}
	s.server = srv
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("VirtualServer %s serve err=%v", s.Name, err)
		}
	}()

	s.status = STATUS_ENABLED
	log.Infof("Listen %s, proto %s, method %s, pool [%v]", s.Address, s.Protocol, s.LBMethod, s.Pool)
	return nil
}

// Stop shuts the listener down, the configuration is retained.
func (s *VirtualServer) Stop() error {
	s.Lock()
	defer s.Unlock()

	if s.status == STATUS_DISABLED {
		return nil
	}
	if err := s.server.Close(); err != nil {
		return err
	}
	s.status = STATUS_DISABLED
	return nil
}

// Status returns enabled/disabled.
func (s *VirtualServer) Status() string {
	s.RLock()
	defer s.RUnlock()
	return s.status
}

// AddPeer adds a backend server to the pool, optional weight
// (default 1).
func (s *VirtualServer) AddPeer(addr string, args ...interface{}) {
	s.Pool.Add(addr, args...)
}

// RemovePeer removes a backend server from the pool.
func (s *VirtualServer) RemovePeer(addr string) {
	s.Pool.Remove(addr)
}

// Stats renders per-peer counters.
func (s *VirtualServer) Stats() string {
	s.RLock()
	defer s.RUnlock()

	peers := make([]string, 0, len(s.ServerStats))
	for peer := range s.ServerStats {
		peers = append(peers, peer)
	}
	sort.Strings(peers)

	result := []string{fmt.Sprintf("Pool-%s", s.Name)}
	for _, peer := range peers {
		result = append(result, fmt.Sprintf("%s\n%s\n------", peer, s.ServerStats[peer]))
	}
	return strings.Join(result, "\n")
}
