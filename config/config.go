package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// Configuration error.
var (
	ErrVirtualServerDuplicated   = errors.New("Vritual Server Duplicated")
	ErrPoolMemberDuplicated      = errors.New("Pool Member Duplicated")
	ErrVirtualServerNameEmpty    = errors.New("Vritual Server Name is not specified")
	ErrVirtualServerAddressEmpty = errors.New("Vritual Server Address is not specified")
	ErrLBMethodNotSupported      = errors.New("LB Method is not supported")
)

// Supported lb_method values.
const (
	LBRandom     = "random"
	LBRoundRobin = "round-robin"
	LBSmooth     = "smooth"
)

// Server configuration.
type Server struct {
	Address string `json:"address" yaml:"address"`
	Weight  int    `json:"weight" yaml:"weight"`
}

// VirtualServer configuration.
type VirtualServer struct {
	Name       string   `json:"name" yaml:"name"`
	Address    string   `json:"address" yaml:"address"`
	ServerName string   `json:"server_name" yaml:"server_name"`
	Protocol   string   `json:"protocol" yaml:"protocol"`
	CertFile   string   `json:"cert_file" yaml:"cert_file"`
	KeyFile    string   `json:"key_file" yaml:"key_file"`
	LBMethod   string   `json:"lb_method" yaml:"lb_method"`
	Retry      bool     `json:"retry" yaml:"retry"`
	Pool       []Server `json:"pool" yaml:"pool"`
}

// Authentication configuration.
type Authentication struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Controller configuration.
type Controller struct {
	Address string         `json:"address" yaml:"address"`
	Auth    Authentication `json:"auth" yaml:"auth"`
}

// ServiceDiscovery configuration.
type ServiceDiscovery struct {
	Type          string `json:"type" yaml:"type"`
	Cluster       string `json:"cluster" yaml:"cluster"`
	Prefix        string `json:"prefix" yaml:"prefix"`
	CertFile      string `json:"cert_file" yaml:"cert_file"`
	KeyFile       string `json:"key_file" yaml:"key_file"`
	TrustedCAFile string `json:"trusted_ca_file" yaml:"trusted_ca_file"`
}

// Configuration is the whole configuration.
type Configuration struct {
	ServiceDiscovery ServiceDiscovery `json:"service_discovery" yaml:"service_discovery"`
	Controller       Controller       `json:"controller" yaml:"controller"`
	VServers         []VirtualServer  `json:"virtual_server" yaml:"virtual_server"`
}

// Load reads the configFile and returns a Configuration object.
// The format is chosen by file extension, JSON unless .yaml/.yml.
func Load(configFile string) (*Configuration, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	c := &Configuration{}
	switch filepath.Ext(configFile) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, err
	}
	if err = c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromString returns a Configuration object from a JSON string.
func LoadFromString(config string) (*Configuration, error) {
	var err error
	c := &Configuration{}
	decoder := json.NewDecoder(strings.NewReader(config))
	if err = decoder.Decode(c); err != nil {
		return nil, err
	}
	if err = c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func validLBMethod(method string) bool {
	switch method {
	case "", LBRandom, LBRoundRobin, LBSmooth:
		return true
	}
	return false
}

func (c *Configuration) check() error {
	set := make(map[string]bool)
	for _, vs := range c.VServers {
		if vs.Name == "" {
			return ErrVirtualServerNameEmpty
		}

		if vs.Address == "" {
			return ErrVirtualServerAddressEmpty
		}

		if !validLBMethod(vs.LBMethod) {
			return ErrLBMethodNotSupported
		}

		if _, ok := set[vs.Name]; ok {
			return ErrVirtualServerDuplicated
		}
		set[vs.Name] = true

		if len(vs.Pool) > 1 {
			pset := make(map[string]bool)
			for _, p := range vs.Pool {
				if _, ok := pset[p.Address]; ok {
					return ErrPoolMemberDuplicated
				}
				pset[p.Address] = true
			}
		}
	}
	return nil
}
