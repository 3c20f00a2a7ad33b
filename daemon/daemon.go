// Package daemon assembles the compositor process: the signal bus, the
// coordinator, the exhibitor thread, the key binding gateway, timers,
// unix signal handling and the operational HTTP servers.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/coordination"
	"github.com/perceptia/perceptia/exhibitor"
	"github.com/perceptia/perceptia/pkg/admin"
	"github.com/perceptia/perceptia/pkg/binding"
	"github.com/perceptia/perceptia/pkg/bus"
	"github.com/perceptia/perceptia/pkg/config"
	"github.com/perceptia/perceptia/pkg/core"
	"github.com/perceptia/perceptia/pkg/geom"
)

// Options configure a daemon.
type Options struct {
	ConfigDirs  []string
	AdminAddr   string
	RemoteAddr  string
	EnablePprof bool

	// VirtualOutput, when non-zero, announces a headless output of that
	// size so the compositor can run without a DRM back-end.
	VirtualOutput geom.Size

	// Renderer receives the per-output surface contexts. Nil runs
	// headless.
	Renderer exhibitor.Renderer

	// RemoteServer lets the run command plug the remote view service in
	// without the daemon importing it.
	RemoteServer func(addr string, signaler *bus.Signaler, coordinator *coordination.Coordinator) *http.Server
}

// Daemon is the assembled compositor process.
type Daemon struct {
	opts        Options
	log         *logging.Entry
	signaler    *bus.Signaler
	coordinator *coordination.Coordinator
	exhibitor   *exhibitor.Exhibitor
	engine      *binding.Engine
	inputLoop   *bus.EventLoop
	ready       bool

	stopOnce sync.Once
	stopped  chan struct{}
}

// New assembles a daemon from the configuration on disk.
func New(opts Options) *Daemon {
	cfg := config.Load(opts.ConfigDirs...)

	d := &Daemon{
		opts:    opts,
		log:     logging.WithField("component", "daemon"),
		stopped: make(chan struct{}),
	}
	d.signaler = bus.NewSignaler()
	d.coordinator = coordination.New(d.signaler)

	strategist := exhibitor.NewStrategist(
		cfg.Exhibitor.Strategist.ChooseTarget,
		cfg.Exhibitor.Strategist.ChooseFloating,
	)
	compositor := exhibitor.NewCompositor(d.coordinator, strategist, exhibitor.CompositorConfig{
		MoveStep:   cfg.Exhibitor.Compositor.MoveStep,
		ResizeStep: cfg.Exhibitor.Compositor.ResizeStep,
	})
	d.exhibitor = exhibitor.New(d.signaler, d.coordinator, compositor, opts.Renderer)

	d.engine = binding.NewEngine(d.signaler, d.Stop, spawnProcess, cfg.BindingTables())
	d.inputLoop = bus.NewEventLoop("input-gateway", d.signaler)
	d.inputLoop.Handle(core.SignalInputKey, func(pkg bus.Package) {
		if key, ok := pkg.Payload.(core.Key); ok {
			d.engine.HandleKey(key)
		}
	})

	return d
}

// Signaler exposes the process-wide signaler.
func (d *Daemon) Signaler() *bus.Signaler { return d.signaler }

// Coordinator exposes the coordinator.
func (d *Daemon) Coordinator() *coordination.Coordinator { return d.coordinator }

// Stop initiates an orderly shutdown. Safe to call more than once and
// from any goroutine.
func (d *Daemon) Stop() {
	d.stopOnce.Do(func() {
		d.log.Info("shutting down")
		close(d.stopped)
	})
}

// Run starts all threads and blocks until the daemon stops via Stop, a
// unix signal or context cancellation.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d.exhibitor.Start()
	d.inputLoop.Start()

	// SIGINT/SIGTERM convert into an orderly stop.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case sig := <-signals:
			d.log.Infof("caught signal %s", sig)
			d.Stop()
		case <-ctx.Done():
		}
	}()

	// The process-wide half-second heartbeat.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.signaler.Emit(core.SignalTimer500, nil)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Configuration reload.
	if len(d.opts.ConfigDirs) > 0 {
		go func() {
			err := config.Watch(ctx, d.opts.ConfigDirs, func(cfg *config.Config) {
				d.signaler.Emit(core.SignalConfigChanged, cfg)
				d.signaler.Emit(core.SignalNotify, nil)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				d.log.Warnf("config watcher stopped: %s", err)
			}
		}()
	}

	var servers []*http.Server
	if d.opts.AdminAddr != "" {
		adminServer := admin.NewServer(d.opts.AdminAddr, d.opts.EnablePprof, &d.ready)
		servers = append(servers, adminServer)
		go func() {
			d.log.Infof("starting admin server on %s", d.opts.AdminAddr)
			if err := adminServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				d.log.Errorf("admin server error: %s", err)
			}
		}()
	}
	if d.opts.RemoteAddr != "" && d.opts.RemoteServer != nil {
		remoteServer := d.opts.RemoteServer(d.opts.RemoteAddr, d.signaler, d.coordinator)
		servers = append(servers, remoteServer)
		go func() {
			d.log.Infof("starting remote view server on %s", d.opts.RemoteAddr)
			if err := remoteServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				d.log.Errorf("remote view server error: %s", err)
			}
		}()
	}

	if !d.opts.VirtualOutput.IsZero() {
		d.signaler.Emit(core.SignalOutputFound, core.OutputInfo{
			ID:          1,
			Area:        geom.NewArea(geom.Position{}, d.opts.VirtualOutput),
			RefreshRate: 60,
			Make:        "perceptia",
			Model:       "virtual",
		})
	}

	d.ready = true
	d.log.Info("compositor running")

	select {
	case <-d.stopped:
	case <-ctx.Done():
		d.Stop()
	}

	// Drain the event loops, then take the HTTP servers down.
	d.signaler.TerminateAll()
	d.exhibitor.Join()
	d.inputLoop.Join()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			d.log.Warnf("server shutdown: %s", err)
		}
	}
	d.log.Info("compositor stopped")
	return nil
}

// spawnProcess runs a key binding's command line detached from the
// compositor.
func spawnProcess(argv []string) {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		logging.Warnf("cannot spawn %v: %s", argv, err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}
