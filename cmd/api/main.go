package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "socomec2mqtt/internal/adapter/actor"
	"socomec2mqtt/internal/config"
	"socomec2mqtt/internal/core/actor"
	"socomec2mqtt/internal/server"
	"socomec2mqtt/internal/util/actorutil"
	"socomec2mqtt/pkg/jbus"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, modbusActorProvider(cfg, logger), mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => SOCOMEC_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("SOCOMEC_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("socomec")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.Serial.Device == "" {
		return nil, errors.New("config param serial.device is required")
	}
	if cfg.MonitorConfig.PollIntervalMillis < 1000 {
		return nil, errors.New("config param monitor.poll_interval_millis should be >= 1000")
	}
	if _, err := upsParams(&cfg); err != nil {
		return nil, fmt.Errorf("config param ups: %w", err)
	}

	return &cfg, nil
}

// upsParams feeds the configured UPS values through the same validation the
// runtime setters apply.
func upsParams(cfg *config.Config) (jbus.Params, error) {
	var params jbus.Params
	if err := params.SetLowBatteryThreshold(cfg.UPSConfig.LowBatteryThreshold); err != nil {
		return params, err
	}
	if err := params.SetShutdownDelay(int(cfg.UPSConfig.ShutdownDelaySeconds)); err != nil {
		return params, err
	}
	if err := params.SetStandbyDuration(int(cfg.UPSConfig.StandbySeconds)); err != nil {
		return params, err
	}
	if err := params.SetScheduleType(int(cfg.UPSConfig.ScheduleType)); err != nil {
		return params, err
	}
	return params, nil
}

func modbusActorProvider(cfg *config.Config, logger *zap.Logger) actor.ModbusActorProvider {

	serialCfg := jbus.SerialConfig{
		Device:   cfg.Serial.Device,
		BaudRate: cfg.Serial.BaudRate,
		DataBits: cfg.Serial.DataBits,
		Parity:   cfg.Serial.Parity,
		StopBits: cfg.Serial.StopBits,
		SlaveId:  uint8(cfg.Serial.UnitId),
		Timeout:  time.Duration(cfg.Serial.TimeoutMillis) * time.Millisecond,
	}

	// the config was already validated at load
	params, err := upsParams(cfg)
	if err != nil {
		panic(err)
	}

	return func() *adactor.ModbusActor {
		client, err := jbus.CreateRTUClient(serialCfg, params, logger)
		if err != nil {
			panic(err)
		}
		return adactor.NewModbusActor(client, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "socomec")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("serial.baud_rate", 9600)
	viper.SetDefault("serial.data_bits", 8)
	viper.SetDefault("serial.parity", "N")
	viper.SetDefault("serial.stop_bits", 1)
	viper.SetDefault("serial.unit_id", 1)
	viper.SetDefault("serial.timeout_millis", 1000)
	viper.SetDefault("monitor.poll_interval_millis", 5000)
	viper.SetDefault("ups.low_battery_threshold", 20)
	viper.SetDefault("ups.shutdown_delay_seconds", 30)
	viper.SetDefault("ups.standby_seconds", 60)
	viper.SetDefault("ups.schedule_type", 4)
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
