package config

import (
	"os"
	"path/filepath"
	"testing"
)

func loadBody(t *testing.T, name, body string) (*Configuration, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return Load(path)
}

func load(t *testing.T, jsonBody string) (*Configuration, error) {
	return loadBody(t, "testconf.json", jsonBody)
}

func TestLoad(t *testing.T) {
	jsonBody := `{"virtual_server":[{"name":"web","address":"127.0.0.1:8081","server_name":"localhost","pool":[{"address":"127.0.0.1:10001","weight":1},{"address":"127.0.0.1:10002","weight":2}],"lb_method":"round-robin"}]}`

	c, err := load(t, jsonBody)
	if err != nil {
		t.Errorf("Load error: %v", err)
		return
	}
	if len(c.VServers) != 1 {
		t.Errorf("The number of virtual_server should be 1")
	}

	vs := c.VServers[0]
	if vs.Address != "127.0.0.1:8081" || vs.LBMethod != "round-robin" || vs.Protocol != "" || vs.ServerName != "localhost" || len(vs.Pool) != 2 {
		t.Errorf("Load configuration error, got %v", c)
	}

	s := vs.Pool[1]
	if s.Address != "127.0.0.1:10002" || s.Weight != 2 {
		t.Errorf("Parse server error, got %v", s)
	}
}

func TestLoadYAML(t *testing.T) {
	yamlBody := `
virtual_server:
- name: web
  address: 127.0.0.1:8081
  lb_method: smooth
  pool:
  - address: 127.0.0.1:10001
    weight: 5
  - address: 127.0.0.1:10002
    weight: 1
`
	c, err := loadBody(t, "testconf.yaml", yamlBody)
	if err != nil {
		t.Errorf("Load error: %v", err)
		return
	}

	vs := c.VServers[0]
	if vs.Name != "web" || vs.LBMethod != LBSmooth || len(vs.Pool) != 2 {
		t.Errorf("Load configuration error, got %v", c)
	}
	if vs.Pool[0].Weight != 5 {
		t.Errorf("Parse server error, got %v", vs.Pool[0])
	}
}

func TestLoadEmpty(t *testing.T) {
	c, err := load(t, "{}")
	if err != nil {
		t.Errorf("Load error: %v", err)
		return
	}
	t.Logf("%v", c)
}

func TestLoadFromString(t *testing.T) {
	c, err := LoadFromString(`{"virtual_server":[{"name":"web","address":"127.0.0.1:8081","lb_method":"random"}]}`)
	if err != nil {
		t.Errorf("LoadFromString error: %v", err)
		return
	}
	if c.VServers[0].LBMethod != LBRandom {
		t.Errorf("LoadFromString error, got %v", c)
	}
}

func TestCheckVirtualServerDuplicated(t *testing.T) {
	jsonBody := `{"virtual_server":[{"name":"web","address":"127.0.0.1:8081"},{"name":"web","address":"127.0.0.1:8082"}]}`
	_, err := load(t, jsonBody)
	if err != ErrVirtualServerDuplicated {
		t.Errorf("Load error: %v, expect: %v", err, ErrVirtualServerDuplicated)
	}
}

func TestCheckPoolMemberDuplicated(t *testing.T) {
	jsonBody := `{"virtual_server":[{"name":"web","address":"127.0.0.1:8081","pool":[{"address":"127.0.0.1:10001","weight":1},{"address":"127.0.0.1:10001","weight":2}]}]}`
	_, err := load(t, jsonBody)
	if err != ErrPoolMemberDuplicated {
		t.Errorf("Load error: %v, expect: %v", err, ErrPoolMemberDuplicated)
	}
}

func TestCheckVirtualServerName(t *testing.T) {
	jsonBody := `{"virtual_server":[{"address":"127.0.0.1:8081"}]}`
	_, err := load(t, jsonBody)
	if err != ErrVirtualServerNameEmpty {
		t.Errorf("Load error: %v, expect: %v", err, ErrVirtualServerNameEmpty)
	}
}

func TestCheckVirtualServerAddress(t *testing.T) {
	jsonBody := `{"virtual_server":[{"name":"web"}]}`
	_, err := load(t, jsonBody)
	if err != ErrVirtualServerAddressEmpty {
		t.Errorf("Load error: %v, expect: %v", err, ErrVirtualServerAddressEmpty)
	}
}

func TestCheckLBMethod(t *testing.T) {
	jsonBody := `{"virtual_server":[{"name":"web","address":"127.0.0.1:8081","lb_method":"least-conn"}]}`
	_, err := load(t, jsonBody)
	if err != ErrLBMethodNotSupported {
		t.Errorf("Load error: %v, expect: %v", err, ErrLBMethodNotSupported)
	}
}
