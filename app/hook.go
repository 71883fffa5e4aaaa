package app

import (
	"context"
	"errors"
	"net/http"
)

// WaitForShutdown stops the server and the scheduler, then closes the database.
func (app *App) WaitForShutdown(ctx context.Context, srv *http.Server) error {
	app.Observability.Logger.Info("Shutting down application...")

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := app.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	app.Observability.Logger.Info("Application shut down gracefully")
	return errors.Join(errs...)
}

// Close stops the scheduler if running and releases the database pool.
func (app *App) Close(ctx context.Context) error {
	var errs []error
	if app.Queue != nil {
		if err := app.Queue.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
		app.Queue = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, err)
		}
		app.db = nil
	}
	return errors.Join(errs...)
}
