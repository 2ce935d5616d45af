package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/smallnest/weighted-rs/service"
)

func main() {
	var flagConfig = flag.String("config", "wlb.json", "configuration file (json or yaml)")
	flag.Parse()

	s, err := service.New(*flagConfig)
	if err != nil {
		log.Fatalf("load %s err=%v", *flagConfig, err)
	}

	if err := s.Run(); err != nil {
		log.Fatal(err)
	}
}
