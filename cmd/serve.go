package cmd

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proywm/sched-simulation/sim"
	"github.com/proywm/sched-simulation/sim/trace"
	"github.com/proywm/sched-simulation/sim/workload"
)

var (
	// CLI flags for the interactive server
	serveAddr     string        // listen address
	serveInterval time.Duration // wall-clock delay between UI updates
	serveTicks    int           // simulated ticks advanced per UI update

	// validated at startup, shared by every connection
	serveCfg sim.Config
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development
		return true
	},
}

// ClientMessage is a command from the browser.
type ClientMessage struct {
	Type    string `json:"type"`              // start, pause, step, reset, load
	Command string `json:"command,omitempty"` // workload string for load
}

// ServerMessage is an update to the browser.
type ServerMessage struct {
	Type    string              `json:"type"` // status, update, summary
	Running *bool               `json:"running,omitempty"`
	Command string              `json:"command,omitempty"`
	Clock   int64               `json:"clock"`
	Live    int                 `json:"live"`
	Lines   []string            `json:"lines,omitempty"`
	Queues  []sim.LevelSnapshot `json:"queues,omitempty"`
	Summary *sim.Summary        `json:"summary,omitempty"`
}

// simState manages one connection's simulation and UI pacing. The registry
// outlives individual loads, so pids keep counting up across workloads the
// way they would in a live system.
type simState struct {
	mu          sync.Mutex
	cfg         sim.Config
	registry    *sim.Registry
	s           *sim.Simulator
	pending     []trace.Event // events emitted since the last UI push
	running     bool
	lastCommand string
	stopCh      chan struct{}
}

func newSimState(cfg sim.Config) (*simState, error) {
	st := &simState{
		cfg:      cfg,
		registry: sim.NewRegistry(),
		stopCh:   make(chan struct{}),
	}
	if err := st.load(workload.DefaultCommand); err != nil {
		return nil, err
	}
	return st, nil
}

// load replaces the simulator with a fresh one admitting the given workload.
// Leftover procs from the previous workload are retired; the shared registry
// keeps the pid sequence going. The sink appends to pending without locking:
// every Tick happens under mu.
func (st *simState) load(command string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	sink := trace.SinkFunc(func(ev trace.Event) {
		st.pending = append(st.pending, ev)
	})
	s, err := sim.NewSimulatorWithRegistry(st.cfg, sink, st.registry)
	if err != nil {
		return err
	}
	st.registry.RetireAll()
	for _, spec := range workload.Parse(command) {
		s.Admit(spec.Name, spec.WorkMs)
	}
	st.s = s
	st.pending = nil
	st.running = false
	st.lastCommand = command
	return nil
}

func (st *simState) start() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.running = true
}

func (st *simState) pause() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.running = false
}

// reset re-admits the last workload through the same registry, so the new
// procs continue the pid sequence.
func (st *simState) reset() error {
	st.mu.Lock()
	command := st.lastCommand
	st.mu.Unlock()
	return st.load(command)
}

func (st *simState) isRunning() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.running
}

// stepN advances up to n ticks and drains the events they produced.
// finished is true only when the run terminated during this call.
func (st *simState) stepN(n int) (events []trace.Event, finished bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.Done() {
		return nil, false
	}
	for i := 0; i < n; i++ {
		if !st.s.Tick() {
			break
		}
	}
	events = st.pending
	st.pending = nil
	if st.s.Done() {
		st.running = false
		return events, true
	}
	return events, false
}

// view is a locked snapshot of everything the UI and the gauges render.
func (st *simState) view() (clock int64, live int, queues []sim.LevelSnapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Clock, st.s.Registry.Live(), st.s.Snapshot()
}

func (st *simState) summary() *sim.Summary {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Summary()
}

func (st *simState) command() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastCommand
}

// stop signals the UI loop to stop
func (st *simState) stop() {
	close(st.stopCh)
}

// safeConn wraps a WebSocket connection with a mutex to prevent concurrent writes
type safeConn struct {
	*websocket.Conn
	writeMu sync.Mutex
}

func (sc *safeConn) WriteJSON(v interface{}) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()
	return sc.Conn.WriteJSON(v)
}

func pushStatus(conn *safeConn, st *simState, running bool) {
	clock, live, _ := st.view()
	msg := ServerMessage{
		Type:    "status",
		Running: &running,
		Command: st.command(),
		Clock:   clock,
		Live:    live,
	}
	if err := conn.WriteJSON(msg); err != nil {
		logrus.Errorf("Error sending status: %v", err)
	}
}

func pushUpdate(conn *safeConn, st *simState, events []trace.Event) {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, ev.Text())
	}
	clock, live, queues := st.view()
	msg := ServerMessage{
		Type:   "update",
		Clock:  clock,
		Live:   live,
		Lines:  lines,
		Queues: queues,
	}
	if err := conn.WriteJSON(msg); err != nil {
		logrus.Errorf("Error sending update: %v", err)
	}
}

func pushSummary(conn *safeConn, st *simState) {
	clock, live, _ := st.view()
	msg := ServerMessage{
		Type:    "summary",
		Clock:   clock,
		Live:    live,
		Summary: st.summary(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		logrus.Errorf("Error sending summary: %v", err)
	}
}

// uiUpdateLoop periodically advances the simulation and pushes updates.
// This runs in its own goroutine and controls UI pacing.
func uiUpdateLoop(conn *safeConn, st *simState) {
	ticker := time.NewTicker(serveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stopCh:
			logrus.Debug("UI update loop stopping")
			return

		case <-ticker.C:
			if !st.isRunning() {
				continue
			}
			events, finished := st.stepN(serveTicks)
			pushUpdate(conn, st, events)
			updatePrometheusMetrics(st)
			if finished {
				pushSummary(conn, st)
				pushStatus(conn, st, false)
			}
		}
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("Error upgrading connection: %v", err)
		return
	}
	defer conn.Close()

	// Wrap connection with mutex for safe concurrent writes
	sc := &safeConn{Conn: conn}

	logrus.Info("Client connected")

	st, err := newSimState(serveCfg)
	if err != nil {
		logrus.Errorf("Error creating simulator: %v", err)
		return
	}

	pushStatus(sc, st, false)
	pushUpdate(sc, st, nil)

	go uiUpdateLoop(sc, st)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("Error reading message: %v", err)
			}
			break
		}

		logrus.Debugf("Received command: %s", msg.Type)

		switch msg.Type {
		case "start":
			st.start()
			pushStatus(sc, st, true)

		case "pause":
			st.pause()
			pushStatus(sc, st, false)

		case "step":
			// single tick, works while paused
			events, finished := st.stepN(1)
			pushUpdate(sc, st, events)
			updatePrometheusMetrics(st)
			if finished {
				pushSummary(sc, st)
				pushStatus(sc, st, false)
			}

		case "reset":
			if err := st.reset(); err != nil {
				logrus.Errorf("Error resetting simulator: %v", err)
				break
			}
			pushStatus(sc, st, false)
			pushUpdate(sc, st, nil)

		case "load":
			if msg.Command == "" {
				break
			}
			if err := st.load(msg.Command); err != nil {
				logrus.Errorf("Error loading workload: %v", err)
				break
			}
			pushStatus(sc, st, false)
			pushUpdate(sc, st, nil)
		}
	}

	// Clean up
	st.stop()
	logrus.Info("Client disconnected")
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		logrus.Errorf("Error executing template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// serveCmd runs the interactive web UI: a browser connects over a websocket,
// drives the scheduler tick by tick, and watches the queues drain.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an interactive scheduler visualization over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sim.DefaultConfig()
		if configPath != "" {
			var err error
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Unable to load config: %v", err)
			}
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		serveCfg = cfg

		initPrometheusMetrics()

		mux := http.NewServeMux()
		mux.HandleFunc("/", serveHome)
		mux.HandleFunc("/ws", handleWebSocket)
		mux.Handle("/metrics", promhttp.Handler())

		logrus.Infof("Server starting on http://localhost%s", serveAddr)
		logrus.Infof("WebSocket endpoint: ws://localhost%s/ws", serveAddr)
		logrus.Infof("Prometheus metrics: http://localhost%s/metrics", serveAddr)
		logrus.Fatal(http.ListenAndServe(serveAddr, mux))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 250*time.Millisecond, "Wall-clock delay between UI updates")
	serveCmd.Flags().IntVar(&serveTicks, "ticks-per-update", 1, "Simulated ticks advanced per UI update")

	rootCmd.AddCommand(serveCmd)
}
