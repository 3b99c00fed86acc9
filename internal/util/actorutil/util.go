package actorutil

import (
	"log/slog"
	"strconv"
	"time"

	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/internal/core/events"
	"socomec2mqtt/internal/mqtt"
	"socomec2mqtt/pkg/jbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT command to the actor request that
// serves it. A nil request with a nil error means the command is not ours.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	switch cmd.Command {
	case "ups":
		return domain.UPSCommandRequest{
			Name: cmd.Payload,
		}, nil
	case "switch":
		if cmd.DeviceId == events.SWITCH_ID_LOAD {
			name := jbus.CommandLoadOff
			if cmd.Payload == mqtt.MQTT_PAYLOAD_ON {
				name = jbus.CommandLoadOn
			}
			return domain.UPSCommandRequest{
				Name: name,
			}, nil
		}
	case "number":
		value, err := strconv.ParseFloat(cmd.Payload, 64)
		if err != nil {
			return nil, err
		}
		if name, scale, ok := paramForInputNumber(cmd.DeviceId); ok {
			return domain.SetParamRequest{
				Name:  name,
				Value: int(value) * scale,
			}, nil
		}
	}
	return nil, nil
}

func paramForInputNumber(deviceId string) (string, int, bool) {
	switch deviceId {
	case events.INPUT_NUMBER_ID_BATTERY_LOW:
		return jbus.ParamLowBatteryThreshold, 1, true
	case events.INPUT_NUMBER_ID_SHUTDOWN_DELAY:
		return jbus.ParamShutdownDelay, 1, true
	case events.INPUT_NUMBER_ID_SHUTDOWN_STANDBY:
		// the input number is in minutes, the parameter takes seconds
		return jbus.ParamStandbyDuration, 60, true
	case events.INPUT_NUMBER_ID_SHUTDOWN_TYPE:
		return jbus.ParamScheduleType, 1, true
	}
	return "", 0, false
}
