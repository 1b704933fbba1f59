package main

import (
	"fmt"
	"io"
	"os"

	"dianti/client"
	"dianti/config"
	"dianti/driver"
	"dianti/logger"
	"dianti/policy"
	"dianti/spectate"
)

func main() {
	config.InitConfig()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return
	}
	logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))

	name := ""
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	if err := run(cfg, policy.ByName(name, nil), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
}

func run(cfg config.Config, p policy.Policy, out io.Writer) error {
	d := &driver.Driver{Policy: p}
	if cfg.WatchAddr != "" {
		hub := spectate.New()
		go hub.Run()
		defer hub.Stop()
		srv := spectate.Serve(cfg.WatchAddr, hub)
		defer srv.Close()
		d.Observer = hub
	}

	sess, st, err := client.Start(client.NewHTTPTransport(cfg.APIURL), cfg.Registration(cfg.BotFor(p.Name())))
	if err != nil {
		return err
	}
	d.Session = sess
	d.NumFloors = sess.NumFloors()

	res, err := d.Run(st)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res)
	return nil
}
