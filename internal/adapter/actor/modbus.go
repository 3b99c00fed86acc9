package actor

import (
	"fmt"
	"time"

	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/internal/util/actorutil"
	"socomec2mqtt/pkg/jbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	MODBUS_ACTOR_ID = "modbus"
)

// ModbusActor owns the JBUS client. Every register read or write in the
// system goes through this actor, so the serial line never sees two
// transactions at once.
type ModbusActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   *jbus.Client
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewModbusActor(client *jbus.Client, zlogger *zap.Logger) *ModbusActor {
	act := &ModbusActor{
		client:   client,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("modbus", zlogger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ModbusActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ModbusActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("modbus@starting started")
		if err := state.client.Open(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.client.Close()
	default:
		state.logger.Debug("modbus@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModbusActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("modbus@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      MODBUS_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("modbus@default: GetDeviceInfoRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, state.getDeviceInfo),
			mapTaskResult[domain.GetDeviceInfoResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetDeviceInfoResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(2 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.GetStatusRequest:
		state.logger.Debug("modbus@default: GetStatusRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getStatus),
			mapTaskResult[domain.GetStatusResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetStatusResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.GetParamsRequest:
		state.logger.Debug("modbus@default: GetParamsRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetParamsResponse{
			Params: state.client.Params(),
		})
	case domain.UPSCommandRequest:
		state.logger.Debug("modbus@default: UPSCommandRequest", zap.String("name", msg.Name))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		name := msg.Name
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.UPSCommandResponse {
			a := state.runCommand(name)
			return &a
		}),
			mapTaskResult[domain.UPSCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.UPSCommandResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Name: name,
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.ShutdownRequest:
		state.logger.Debug("modbus@default: ShutdownRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, state.runShutdown),
			mapTaskResult[domain.ShutdownResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.ShutdownResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.SetParamRequest:
		// parameter changes only touch in-memory state, no serial round trip
		state.logger.Debug("modbus@default: SetParamRequest", zap.String("name", msg.Name), zap.Int("value", msg.Value))
		err := state.client.SetParam(msg.Name, msg.Value)
		actorutil.ForRequest(msg).Respond(ctx, domain.SetParamResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
			Params: state.client.Params(),
		})
		if err == nil && ctx.Parent() != nil {
			ctx.Send(ctx.Parent(), domain.ParamsUpdated{
				Params: state.client.Params(),
			})
		}
	case *actor.Stopping:
		state.client.Close()
	default:
		state.logger.Debug("modbus@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ModbusActor) WaitingModbus(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("modbus@WaitingModbus backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.client.Close()
	default:
		state.logger.Debug("modbus@WaitingModbus stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *ModbusActor) getDeviceInfo() *domain.GetDeviceInfoResponse {
	return &domain.GetDeviceInfoResponse{
		Identity: a.client.Identity(),
		Nominal:  a.client.Nominal(),
		Params:   a.client.Params(),
	}
}

func (a *ModbusActor) getStatus() (*domain.GetStatusResponse, error) {
	snap, err := a.client.UpdateStatus()
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetStatusResponse{
		Status: snap,
	}, nil
}

func (a *ModbusActor) runCommand(name string) domain.UPSCommandResponse {
	if err := a.client.Command(name); err != nil {
		logger.Error(err)
		return domain.UPSCommandResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
			Name: name,
		}
	}
	return domain.UPSCommandResponse{
		Name: name,
	}
}

func (a *ModbusActor) runShutdown() *domain.ShutdownResponse {
	if err := a.client.Shutdown(); err != nil {
		logger.Error(err)
		return &domain.ShutdownResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	}
	return &domain.ShutdownResponse{}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
