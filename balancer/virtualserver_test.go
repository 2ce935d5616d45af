package balancer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/weighted-rs/pool"
)

func TestVirtualServer(t *testing.T) {
	vsAddr := "127.0.0.1:8083"
	s1 := httptest.NewServer(newHandler("s1"))
	s2 := httptest.NewServer(newHandler("s2"))
	defer s1.Close()
	defer s2.Close()
	S1, S2 := s1.URL[7:], s2.URL[7:]
	if S1 > S2 {
		S1, S2 = S2, S1
	}
	jsonBody := fmt.Sprintf(`{"virtual_server":[{"name":"web","address":"%s","pool":[{"address":"%s","weight":1},{"address":"%s","weight":1}]}]}`, vsAddr, S1, S2)

	c, err := load(t, jsonBody)
	require.NoError(t, err)

	cvs := c.VServers[0]
	vs, err := NewVirtualServer(
		NameOpt(cvs.Name),
		AddressOpt(cvs.Address),
		PoolOpt(cvs.LBMethod, cvs.Pool),
	)
	require.NoError(t, err)
	assert.Equal(t, pool.MethodRoundRobin, vs.LBMethod)

	// test run
	require.NoError(t, vs.Run())
	assert.Equal(t, STATUS_ENABLED, vs.Status())

	// test LB
	result := map[string]int{}
	for i := 0; i < 10; i += 1 {
		resp, err := request(vsAddr)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		result[resp.Body] += 1
	}
	assert.Equal(t, 5, result["s1"])
	assert.Equal(t, 5, result["s2"])

	// test stats
	expectStats := fmt.Sprintf("Pool-web\n%s\nstatus_code: 200:5\nmethod: GET:5\npath: /:5\nrecv_bytes: 0\nsend_bytes: 10\n------\n%s\nstatus_code: 200:5\nmethod: GET:5\npath: /:5\nrecv_bytes: 0\nsend_bytes: 10\n------", S1, S2)
	assert.Equal(t, expectStats, vs.Stats())

	// test pool
	assert.Equal(t, 2, vs.Pool.Size())

	peer := "127.0.0.1:10009"
	vs.AddPeer(peer)
	assert.Equal(t, 3, vs.Pool.Size())

	vs.AddPeer(peer)
	assert.Equal(t, 3, vs.Pool.Size())

	vs.RemovePeer(peer)
	assert.Equal(t, 2, vs.Pool.Size())

	vs.RemovePeer(peer)
	assert.Equal(t, 2, vs.Pool.Size())

	// test stop
	require.NoError(t, vs.Stop())
	assert.Equal(t, STATUS_DISABLED, vs.Status())
}

func TestVirtualServerFail(t *testing.T) {
	addr := "127.0.0.1:8084"
	jsonBody := fmt.Sprintf(`{"virtual_server":[{"name":"web","address":"%s","pool":[{"address":"127.0.0.1:12345","weight":1}]}]}`, addr)

	c, err := load(t, jsonBody)
	require.NoError(t, err)

	cvs := c.VServers[0]
	vs, err := NewVirtualServer(
		NameOpt(cvs.Name),
		AddressOpt(cvs.Address),
		PoolOpt(cvs.LBMethod, cvs.Pool),
	)
	require.NoError(t, err)
	require.NoError(t, vs.Run())

	resp, err := request(addr)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	require.NoError(t, vs.Stop())
	assert.Equal(t, STATUS_DISABLED, vs.Status())
}

func TestVirtualServerHostNotMatch(t *testing.T) {
	addr := "127.0.0.1:8085"
	vs, err := NewVirtualServer(
		NameOpt("web"),
		AddressOpt(addr),
		ServerNameOpt("web.example.com"),
	)
	require.NoError(t, err)
	require.NoError(t, vs.Run())
	defer vs.Stop()

	resp, err := request(addr)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, ErrHostNotMatch.ErrMsg, resp.Body)
}

func TestVirtualServerNoPeer(t *testing.T) {
	addr := "127.0.0.1:8086"
	vs, err := NewVirtualServer(
		NameOpt("web"),
		AddressOpt(addr),
		LBMethodOpt(pool.MethodSmooth),
	)
	require.NoError(t, err)
	require.NoError(t, vs.Run())
	defer vs.Stop()

	resp, err := request(addr)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, ErrPeerNotFound.ErrMsg, resp.Body)
}

func TestVirtualServerOptionErrors(t *testing.T) {
	_, err := NewVirtualServer(AddressOpt("127.0.0.1:8087"))
	assert.Equal(t, ErrVirtualServerNameEmpty, err)

	_, err = NewVirtualServer(NameOpt("web"))
	assert.Equal(t, ErrVirtualServerAddressEmpty, err)

	_, err = NewVirtualServer(
		NameOpt("web"),
		AddressOpt("127.0.0.1:8087"),
		ProtocolOpt("grpc"),
	)
	assert.Equal(t, ErrNotSupportedProto, err)

	_, err = NewVirtualServer(
		NameOpt("web"),
		AddressOpt("127.0.0.1:8087"),
		PoolOpt("least-conn", nil),
	)
	assert.Equal(t, ErrNotSupportedMethod, err)
}
