// Package monitoring turns a running simulation into a web server, allowing
// external observation and control of the run.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/modsimlab/stride/sim"
)

// A Controllable is a run that the monitor can observe and control. It is
// satisfied by the orchestrator's Runner.
type Controllable interface {
	Pause()
	Continue()
	Stop()
	CurrentStep() sim.Step
	CurrentTime() sim.Time
	Progress() float64
	RunFinished() bool
}

type namedElement struct {
	name string
	elem any
}

// Monitor can turn a simulation into a server and allows external monitoring
// and controlling of the run.
type Monitor struct {
	run        Controllable
	elements   []namedElement
	portNumber int
	useBrowser bool
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

// WithBrowserLaunch opens the monitor page in the default browser once the
// server is listening.
func (m *Monitor) WithBrowserLaunch() *Monitor {
	m.useBrowser = true
	return m
}

// RegisterRun registers the run to be monitored.
func (m *Monitor) RegisterRun(r Controllable) {
	m.run = r
}

// RegisterElement registers an element to be inspected under the given name.
func (m *Monitor) RegisterElement(name string, e any) {
	for _, ne := range m.elements {
		if ne.name == name {
			panic("element " + name + " already registered")
		}
	}

	m.elements = append(m.elements, namedElement{name: name, elem: e})
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseRun)
	r.HandleFunc("/api/continue", m.continueRun)
	r.HandleFunc("/api/stop", m.stopRun)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/progress", m.progress)
	r.HandleFunc("/api/list_elements", m.listElements)
	r.HandleFunc("/api/element/{name}", m.listElementDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.useBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "failed to open browser: %v\n", err)
		}
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) pauseRun(w http.ResponseWriter, _ *http.Request) {
	m.run.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueRun(w http.ResponseWriter, _ *http.Request) {
	m.run.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) stopRun(w http.ResponseWriter, _ *http.Request) {
	m.run.Stop()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"step\":%d,\"time\":%.10f}",
		int64(m.run.CurrentStep()), float64(m.run.CurrentTime()))
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"progress\":%.6f,\"finished\":%t}",
		m.run.Progress(), m.run.RunFinished())
}

func (m *Monitor) listElements(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, ne := range m.elements {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", ne.name)
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listElementDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	elem := m.findElementOr404(w, name)
	if elem == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(elem)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	ElemName  string `json:"elem_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		dieOnErr(err)
	}

	fields := strings.Split(req.FieldName, ".")

	elem := m.findElementOr404(w, req.ElemName)
	if elem == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(elem)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(fields)
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) findElementOr404(
	w http.ResponseWriter,
	name string,
) any {
	for _, ne := range m.elements {
		if ne.name == name {
			return ne.elem
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Element not found"))
	dieOnErr(err)

	return nil
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
