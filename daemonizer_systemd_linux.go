package pulp

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

type systemdDaemonizer struct {
	logConfig LogConfig
}

func (o *systemdDaemonizer) RunUntilExit(application Application) error {
	// Only do native log things when running non-interactively.
	// The 'PS1' environment variable will be empty / not set when
	// this is run non-interactively.
	if o.logConfig.UseNativeLogger && len(os.Getenv("PS1")) == 0 {
		log.SetOutput(os.Stderr)
		// The journal timestamps log lines for us. Setting the log
		// flags to 0 avoids double timestamps.
		log.SetFlags(0)

		if o.logConfig.NativeLogFlags > 0 {
			originalLogFlags := log.Flags()
			log.SetFlags(o.logConfig.NativeLogFlags)
			defer log.SetFlags(originalLogFlags)
		}
	}

	return runUntilSignaled(application)
}

// runUntilSignaled starts the application and blocks until SIGINT or
// SIGTERM arrives. SIGHUP triggers a Reload when the application
// supports it, and is otherwise ignored.
func runUntilSignaled(application Application) error {
	err := application.Start()
	if err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for s := range signals {
		if s == syscall.SIGHUP {
			if reloader, ok := application.(Reloader); ok {
				err := reloader.Reload()
				if err != nil {
					log.Printf("failed to reload application - %s", err.Error())
				}
			}
			continue
		}

		break
	}
	signal.Stop(signals)

	return application.Stop()
}

func newSystemdDaemonizer(logConfig LogConfig) Daemonizer {
	return &systemdDaemonizer{
		logConfig: logConfig,
	}
}
