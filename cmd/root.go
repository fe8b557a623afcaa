package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/log"
	"storefront/internal/otel"
)

func Start() {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	c := bootstrap.WithContext(context.Background())

	cfg := config.InitConfig(c, "storefront")

	logger := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env).
		With().
		Str(log.KeyAppName, "storefront").
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	shutdown, err := otel.InitOtelSdk(c, cfg.Otel.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msgf("error initializing otel sdk=%s", err.Error())
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msgf("error shutting down otel sdk=%s", err.Error())
		}
	}()

	engine := newEngine(c, cfg)

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront client: browse products, assemble a cart, check out",
	}
	rootCmd.AddCommand(
		engine.loginCommand(),
		engine.registerCommand(),
		engine.logoutCommand(),
		engine.whoamiCommand(),
		engine.productsCommand(),
		engine.orderCommand(),
		engine.ordersCommand(),
		engine.orderStatusCommand(),
		engine.cancelOrderCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
