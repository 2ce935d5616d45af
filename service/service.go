// Package service wires configuration, discovery, controller and
// balancer together.
package service

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/smallnest/weighted-rs/balancer"
	"github.com/smallnest/weighted-rs/config"
	"github.com/smallnest/weighted-rs/controller"
	sd "github.com/smallnest/weighted-rs/discovery"
)

type Service struct {
	discovery  *sd.ServiceDiscovery
	controller *controller.Controller
	balancer   *balancer.Balancer
}

// New builds a Service from the configuration file.
func New(configFile string) (*Service, error) {
	c, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	sdCfg := c.ServiceDiscovery
	dis, err := sd.New(sd.TypeOpt(sdCfg.Type),
		sd.ClusterOpt(sdCfg.Cluster),
		sd.PrefixOpt(sdCfg.Prefix),
		sd.SecurityOpt(sdCfg.CertFile, sdCfg.KeyFile, sdCfg.TrustedCAFile))
	if err != nil {
		log.Warnf("New ServiceDiscovery err=%v", err)
	}

	ctl := controller.New(&c.Controller)
	b, err := balancer.New(c.VServers)
	if err != nil {
		return nil, err
	}

	return &Service{
		discovery:  dis,
		controller: ctl,
		balancer:   b,
	}, nil
}

// Run blocks until SIGINT/SIGTERM.
func (s *Service) Run() error {
	log.Infof("Starting...")
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)

	s.discovery.Run(s.balancer)
	s.controller.Run(s.balancer)
	if err := s.balancer.Run(); err != nil {
		return err
	}

	sig := <-sigC
	log.Infof("Caught signal %v, exiting...", sig)

	return s.balancer.Stop()
}
