package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"campusquery/internal/bootstrap"
	"campusquery/pkg/routes"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		routes.AppModules,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	app.Run()
}
