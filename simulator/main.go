package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/clockmirror/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8081")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	landscape := flag.Bool("landscape", false, "start in landscape mode")
	flag.Parse()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	control := NewSimControl(*landscape)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Handler = NewRouter(control)

	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}

	fmt.Println("World clock simulator listening on", server.Addr())
	fmt.Println("Display: http://" + displayHost(server.Addr()) + "/api/display")
	fmt.Println("Mirror it with: clockmirror -device " + displayHost(server.Addr()))

	<-processCtx.Done()
	_ = server.Stop()
}

func displayHost(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if len(addr) > 4 && addr[:4] == "[::]" {
		return "127.0.0.1" + addr[4:]
	}
	if addr == "" {
		return "127.0.0.1:8081"
	}
	return addr
}
