package util

import (
	"socomec2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Serial: config.SerialConfig{
			Device:        "/dev/null",
			BaudRate:      9600,
			DataBits:      8,
			Parity:        "N",
			StopBits:      1,
			UnitId:        1,
			TimeoutMillis: 1000,
		},
		MQTT: config.MQTTConfig{
			Host: "localhost",
			Port: 1883,
		},
		UPSConfig: config.UPSConfig{
			LowBatteryThreshold:  20,
			ShutdownDelaySeconds: 30,
			StandbySeconds:       60,
			ScheduleType:         4,
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
