package main

import (
	"context"
	"fmt"
	"os"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/ops"
	"main/internal/quoter"
	"main/internal/session"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := ops.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Profiling.Enabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "zubrbot",
			ServerAddress:   cfg.Profiling.ServerAddress,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "pyroscope start: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	sess := session.New(session.Option{
		URL:       cfg.API.URL,
		Host:      cfg.API.Host,
		KeyID:     cfg.API.KeyID,
		KeySecret: cfg.API.KeySecret,
	})

	engine := quoter.New(cfg.Quoter, sess)
	sess.SetConnectHandler(engine.HandleAuth)
	sess.SetMessageHandler(engine.HandleMessage)

	logs.Infof("starting quoting for instrument %d", cfg.Quoter.InstrumentID)
	sess.Start(context.Background())

	go func() {
		<-sys.Shutdown()
		logs.Info("shutting down")
		sess.Stop()
	}()

	sess.Wait()
}
