// Package monitoring turns a set of cache controllers into a web server so
// that their state can be inspected while a workload is running.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hwsimlab/hwblocks/camcache"
)

// Monitor serves the state of registered cache controllers over HTTP.
type Monitor struct {
	controllers []*camcache.Comp
	portNumber  int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterController registers a controller to be monitored.
func (m *Monitor) RegisterController(c *camcache.Comp) {
	m.controllers = append(m.controllers, c)
}

// Handler returns the route handler. Tests can exercise the API through it
// without opening a socket.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/list_controllers", m.listControllers)
	r.HandleFunc("/api/controller/{name}/status", m.controllerStatus)
	r.HandleFunc("/api/controller/{name}/slots", m.controllerSlots)
	r.HandleFunc("/api/controller/{name}/candidate", m.controllerCandidate)

	return r
}

// StartServer starts the monitor as a web server. It returns the address the
// server listens on.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(os.Stderr,
		"Monitoring controllers with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, m.Handler())
		dieOnErr(err)
	}()

	return listener.Addr().String()
}

func (m *Monitor) listControllers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, c := range m.controllers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", c.Name())
	}
	fmt.Fprint(w, "]")
}

type statusRsp struct {
	Name     string `json:"name"`
	NumSlots int    `json:"num_slots"`
	NumFree  int    `json:"num_free"`
}

func (m *Monitor) controllerStatus(w http.ResponseWriter, r *http.Request) {
	c := m.findControllerOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	rsp := statusRsp{
		Name:     c.Name(),
		NumSlots: c.NumSlots(),
		NumFree:  c.FreeCount(),
	}

	writeJSON(w, rsp)
}

type slotRsp struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
	Key    uint64 `json:"key"`
	Tag    uint64 `json:"tag"`
}

func (m *Monitor) controllerSlots(w http.ResponseWriter, r *http.Request) {
	c := m.findControllerOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	slots := c.Slots()
	rsp := make([]slotRsp, 0, len(slots))

	for _, s := range slots {
		rsp = append(rsp, slotRsp{
			Index:  s.Index,
			Status: s.Status.String(),
			Key:    s.Key,
			Tag:    s.Tag,
		})
	}

	writeJSON(w, rsp)
}

type candidateRsp struct {
	Index int  `json:"index"`
	Found bool `json:"found"`
}

func (m *Monitor) controllerCandidate(w http.ResponseWriter, r *http.Request) {
	c := m.findControllerOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	index, found := c.EvictionCandidate()

	writeJSON(w, candidateRsp{Index: index, Found: found})
}

func (m *Monitor) findControllerOr404(
	w http.ResponseWriter,
	name string,
) *camcache.Comp {
	for _, c := range m.controllers {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Controller not found"))
	dieOnErr(err)

	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
