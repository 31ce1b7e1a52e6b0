package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"food-delivery/internal/api"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/config"
	"food-delivery/internal/connections/database"
	"food-delivery/internal/connections/rabbitmq"
	"food-delivery/internal/microservices/notificator"
)

const modes = "api | notification-subscriber | migrate"

func main() {
	mode := flag.String("mode", "api", modes)
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	port := flag.Int("port", 0, "api: http port, overrides config")
	prefetch := flag.Int("prefetch", 10, "notification-subscriber: RabbitMQ prefetch")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	lg := logger.NewWithLevel(serviceName(*mode), cfg.Log.Level, os.Stdout)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *mode, *prefetch, cfg, lg); err != nil {
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		os.Exit(1)
	}
	lg.Info("service_stopped", nil)
}

func run(ctx context.Context, mode string, prefetch int, cfg *config.Config, lg *logger.Logger) error {
	switch mode {
	case "api":
		if err := cfg.Validate(true, cfg.RabbitMQ.Enabled); err != nil {
			return err
		}
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

		var rmq *rabbitmq.Client
		if cfg.RabbitMQ.Enabled {
			if rmq, err = dialRabbit(cfg); err != nil {
				return err
			}
			defer rmq.Close()
			lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host})
		}
		return api.Run(ctx, cfg, pool, rmq, lg)

	case "notification-subscriber":
		if err := cfg.Validate(false, true); err != nil {
			return err
		}
		rmq, err := dialRabbit(cfg)
		if err != nil {
			return err
		}
		defer rmq.Close()
		return notificator.Run(ctx, rmq, lg, prefetch)

	case "migrate":
		if err := cfg.Validate(true, false); err != nil {
			return err
		}
		version, err := database.Migrate(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		lg.Info("migrations_applied", map[string]any{"version": version})
		return nil

	default:
		return fmt.Errorf("unknown --mode %q, expected %s", mode, modes)
	}
}

func dialRabbit(cfg *config.Config) (*rabbitmq.Client, error) {
	rmq, err := rabbitmq.Dial(rabbitmqConfig(cfg.RabbitMQ))
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect: %w", err)
	}
	if err := rmq.Ping(); err != nil {
		rmq.Close()
		return nil, fmt.Errorf("rabbitmq ping: %w", err)
	}
	return rmq, nil
}

func rabbitmqConfig(c config.RabbitMQConfig) rabbitmq.Config {
	return rabbitmq.Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		VHost:    c.VHost,
		UseTLS:   c.TLS,
	}
}

func serviceName(mode string) string {
	if mode == "api" {
		return "food-delivery-api"
	}
	return mode
}
