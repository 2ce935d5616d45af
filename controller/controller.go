package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/smallnest/weighted-rs/balancer"
	"github.com/smallnest/weighted-rs/config"
)

// Controller provides interface to operate balancer.
type Controller struct {
	Address string
	Auth    *Authentication
}

// New returns a Controller object.
func New(ctlCfg *config.Controller) *Controller {
	return &Controller{
		Address: ctlCfg.Address,
		Auth:    &Authentication{ctlCfg.Auth.Username, ctlCfg.Auth.Password},
	}
}

// Router builds the management API routes for the balancer.
func (c *Controller) Router(b *balancer.Balancer) http.Handler {
	r := mux.NewRouter()
	r.Handle("/stats", statsHandler(b)).Methods("GET")
	r.Handle("/vs", addVirtualServer(b)).Methods("POST")
	r.Handle("/vs", listAllVirtualServer(b)).Methods("GET")
	r.Handle("/vs/{name}", modifyVirtualServerStatus(b)).Methods("POST")
	r.Handle("/vs/{name}", listVirtualServer(b)).Methods("GET")
	r.Handle("/vs/{name}/pool", addPoolMember(b)).Methods("POST")
	r.Handle("/vs/{name}/pool", deletePoolMember(b)).Methods("DELETE")
	return BasicAuth(c.Auth)(r)
}

// Run starts the controller.
func (c *Controller) Run(b *balancer.Balancer) {
	handler := c.Router(b)
	go func() {
		if err := http.ListenAndServe(c.Address, handler); err != nil {
			panic(err)
		}
	}()
}

func statsHandler(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result := []string{}
		for _, vs := range b.VServers {
			result = append(result, vs.Stats())
		}
		io.WriteString(w, strings.Join(result, "\n"))
	})
}

func listAllVirtualServer(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, vs := range b.VServers {
			data := fmt.Sprintf("Name:%s, Address:%s, Status:%s, Pool:\n%s\n\n",
				vs.Name, vs.Address, vs.Status(), vs.Pool)
			io.WriteString(w, data)
		}
	})
}

func listVirtualServer(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := vars["name"]
		vs, err := b.FindVirtualServer(name)
		if err != nil {
			log.Errorf("FindVirtualServer err=%v", err)
			WriteBadRequest(w, err)
			return
		}
		io.WriteString(w, vs.Pool.String())
	})
}

type modifyVirtualServer struct {
	Action string `json:"action"`
}

func modifyVirtualServerStatus(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := vars["name"]
		var req modifyVirtualServer
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&req); err != nil {
			log.Errorf("Decode request err=%v", err)
			WriteBadRequest(w, err)
			return
		}
		action := req.Action
		log.Infof("virtual server name %s, action %s", name, action)
		msg := "success"

		vs, err := b.FindVirtualServer(name)
		if err != nil {
			log.Errorf("FindVirtualServer err=%v", err)
			WriteBadRequest(w, err)
			return
		}

		if action == "enable" {
			if err := vs.Run(); err != nil {
				msg = err.Error()
			}
		} else if action == "disable" {
			if err := vs.Stop(); err != nil {
				msg = err.Error()
			}
		} else {
			log.Errorf("%v", ErrUnknownAction)
			WriteError(w, ErrUnknownAction)
			return
		}

		io.WriteString(w, msg)
	})
}

func addVirtualServer(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var vs config.VirtualServer
		decoder := json.NewDecoder(r.Body)
		err := decoder.Decode(&vs)
		if err != nil {
			log.Errorf("Decode request err=%v", err)
			WriteBadRequest(w, err)
			return
		}

		log.Infof("VirtualServer %v", vs)
		err = b.AddVirtualServer(&vs)
		if err != nil {
			log.Errorf("AddVirtualServer err=%v", err)
			WriteBadRequest(w, err)
			return
		}

		io.WriteString(w, "Add success")
	})
}

func decodeServer(r *http.Request) (*config.Server, error) {
	var server config.Server
	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(&server)
	if err != nil {
		log.Errorf("Decode request err=%v", err)
		return nil, err
	}
	return &server, nil
}

func addPoolMember(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := vars["name"]
		vs, err := b.FindVirtualServer(name)
		if err != nil {
			log.Errorf("FindVirtualServer err=%v", err)
			WriteBadRequest(w, err)
			return
		}

		server, err := decodeServer(r)
		if err != nil {
			WriteBadRequest(w, err)
			return
		}

		weight := server.Weight
		if weight <= 0 {
			weight = 1
		}
		vs.AddPeer(server.Address, weight)
		io.WriteString(w, "Add peer success")
	})
}

func deletePoolMember(b *balancer.Balancer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		name := vars["name"]
		vs, err := b.FindVirtualServer(name)
		if err != nil {
			log.Errorf("FindVirtualServer err=%v", err)
			WriteBadRequest(w, err)
			return
		}
		server, err := decodeServer(r)
		if err != nil {
			WriteBadRequest(w, err)
			return
		}

		vs.RemovePeer(server.Address)
		io.WriteString(w, "Remove peer success")
	})
}
