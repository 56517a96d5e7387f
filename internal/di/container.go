package di

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/httpapi"
	"github.com/mikey/spam-classifier/internal/adapters/web"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/logging"
	"github.com/mikey/spam-classifier/internal/metrics"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/utils"
)

// BuildContainer creates and configures a dependency injection container for the web front end
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	return container, provideWeb(container)
}

// provideWeb registers everything below the configuration
func provideWeb(container *dig.Container) error {
	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return err
	}

	if err := provideCore(container); err != nil {
		return err
	}

	// Register metrics
	if err := container.Provide(func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	}); err != nil {
		return err
	}
	if err := container.Provide(func(reg *prometheus.Registry) (*metrics.MetricsObserver, error) {
		return metrics.NewMetricsObserver(reg)
	}); err != nil {
		return err
	}

	// Register websocket hub
	if err := container.Provide(web.NewHub); err != nil {
		return err
	}

	// Register backend readiness probe
	if err := container.Provide(func(classifier core.Classifier) web.BackendProbe {
		client, ok := classifier.(*httpapi.Client)
		if !ok {
			return nil
		}
		return func(ctx context.Context) error {
			_, err := client.Health(ctx)
			return err
		}
	}); err != nil {
		return err
	}

	// Register web front end
	return container.Provide(func(
		cfg *config.Config,
		controller *core.RequestController,
		hub *web.Hub,
		metricsObserver *metrics.MetricsObserver,
		textProcessor *utils.TextProcessor,
		probe web.BackendProbe,
		reg *prometheus.Registry,
		logger *zap.Logger,
	) (ports.Frontend, error) {
		serverCfg, err := cfg.GetServer()
		if err != nil {
			return nil, err
		}

		controller.Subscribe(metricsObserver)
		hub.Seed(controller.Busy(), controller.State())
		controller.Subscribe(hub)

		return web.NewServer(
			serverCfg,
			controller,
			hub,
			textProcessor,
			cfg.GetInput().MaxChars,
			probe,
			reg,
			logger,
		), nil
	})
}

// provideCore registers the classifier, presenter and request controller
func provideCore(container *dig.Container) error {
	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register classifier factory
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return err
	}

	// Register presenter
	if err := container.Provide(core.NewResultPresenter); err != nil {
		return err
	}

	// Register request controller
	return container.Provide(func(
		classifier core.Classifier,
		presenter *core.ResultPresenter,
		logger *zap.Logger,
	) *core.RequestController {
		controller := core.NewRequestController(classifier, presenter, logger)
		controller.Subscribe(logging.NewLoggingObserver(logger))
		return controller
	})
}
