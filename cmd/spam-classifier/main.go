package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/spam-classifier/internal/adapters/terminal"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/di"
	"github.com/mikey/spam-classifier/internal/utils"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var exitCode int
	if err := container.Invoke(func(
		flags *di.CLIFlags,
		cfg *config.Config,
		logger *zap.Logger,
		classifier core.Classifier,
		controller *core.RequestController,
		textProcessor *utils.TextProcessor,
		renderer *terminal.Renderer,
	) error {
		defer logger.Sync()

		exitCode, err = run(flags, cfg, logger, classifier, controller, textProcessor, renderer)
		return err
	}); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(exitCode)
}

// run classifies one email and returns the process exit code
func run(
	flags *di.CLIFlags,
	cfg *config.Config,
	logger *zap.Logger,
	classifier core.Classifier,
	controller *core.RequestController,
	textProcessor *utils.TextProcessor,
	renderer *terminal.Renderer,
) (int, error) {
	// Read email from file or stdin
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return 1, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return 1, fmt.Errorf("failed to read email: %w", err)
	}
	text := string(raw)

	renderer.RenderInput(text, textProcessor.InputStats(text, cfg.GetInput().MaxChars))
	controller.Subscribe(renderer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := controller.Submit(ctx, text)
	if err != nil {
		return 1, err
	}

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	if state.Phase == core.PhaseFailed {
		return 1, nil
	}
	return 0, nil
}
