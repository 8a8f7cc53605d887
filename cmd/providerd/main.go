// providerd serves remote-operation programs against a static
// accessibility tree. It is the reference provider: a real deployment
// swaps the tree host for one fronting live objects.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/remoteops/remop/internal/config"
	"github.com/remoteops/remop/internal/provider"
	"github.com/remoteops/remop/internal/trace"
	"github.com/remoteops/remop/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to providerd.yaml")
	listen := flag.String("listen", "", "listen address override")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("providerd: %v", err)
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	host := provider.NewTreeHost(demoTree())
	caps := transport.Capabilities{Guid: cfg.Guid, CacheRequest: cfg.CacheRequest}

	srv := provider.NewServer(host, caps)
	if cfg.MaxInstructions > 0 {
		srv = srv.WithMaxSteps(cfg.MaxInstructions)
	}

	if cfg.TraceDB != "" {
		store, err := trace.Open(cfg.TraceDB)
		if err != nil {
			log.Fatalf("providerd: %v", err)
		}
		defer store.Close()
		srv = srv.WithExecListener(func(req *transport.Request, resp *transport.Response) {
			if err := store.Record(req, resp); err != nil {
				log.Printf("providerd: trace record: %v", err)
			}
		})
		log.Printf("providerd: tracing executions to %s", cfg.TraceDB)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Printf("providerd: shutting down")
		srv.Stop()
	}()

	log.Printf("providerd: connection %s listening on %s", srv.ID(), cfg.Listen)
	if err := srv.Serve(cfg.Listen); err != nil {
		log.Fatalf("providerd: %v", err)
	}
}

// demoTree is the static tree the reference provider fronts. Clients
// import elements by these keys.
func demoTree() *provider.Node {
	return &provider.Node{
		Key:         "root",
		Name:        "Desktop",
		ClassName:   "Desktop",
		ControlType: 1,
		Children: []*provider.Node{
			{
				Key:         "window",
				Name:        "Demo Window",
				ClassName:   "Window",
				ControlType: 2,
				CanMaximize: true,
				CanMinimize: true,
				Children: []*provider.Node{
					{Key: "ok", Name: "OK", ClassName: "Button", ControlType: 3},
					{Key: "check", Name: "Notify", ClassName: "CheckBox", ControlType: 4},
					{Key: "input", Name: "Search", ClassName: "Edit", ControlType: 5, Value: "hello world"},
					{Key: "slider", Name: "Volume", ClassName: "Slider", ControlType: 6, RangeValue: 40, RangeMax: 100},
				},
			},
		},
	}
}
