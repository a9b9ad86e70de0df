// Command server runs the interlude backend: account authentication and
// user-document management over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up|down|status) and exit")
	flag.Parse()

	app, err := newApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if *migrateCmd != "" {
		if err := app.runMigrations(*migrateCmd); err != nil {
			app.logger.Error("migrations failed", "error", err)
			app.cleanup()
			os.Exit(1)
		}
		app.cleanup()
		return
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		app.logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
