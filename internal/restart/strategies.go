package restart

import (
	"context"
	"log"
	"os"
	"os/exec"
	"time"
)

const commandTimeout = 15 * time.Second

// ProcessRestart returns a perform function that tries the configured
// service manager first, then the process manager, then falls back to a
// plain process exit and lets the supervisor bring the binary back up.
// The strategies are interchangeable; only the outer gating in the
// coordinator matters to callers.
func ProcessRestart(systemdUnit, pm2Name string) func() error {
	return func() error {
		if systemdUnit != "" {
			if err := runCommand("systemctl", "restart", systemdUnit); err == nil {
				return nil
			} else {
				log.Printf("restart: systemctl restart %s failed: %v", systemdUnit, err)
			}
		}

		if pm2Name != "" {
			if err := runCommand("pm2", "restart", pm2Name); err == nil {
				return nil
			} else {
				log.Printf("restart: pm2 restart %s failed: %v", pm2Name, err)
			}
		}

		log.Printf("restart: no manager available, exiting process")
		os.Exit(0)
		return nil
	}
}

func runCommand(name string, args ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Run()
}
