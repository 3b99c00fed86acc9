package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "socomec2mqtt/internal/adapter/actor"
	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/internal/util"
	"socomec2mqtt/pkg/jbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spawnTestMaster(t *testing.T, context *actor.RootContext, logger *zap.Logger) *actor.PID {
	t.Helper()
	cfg := util.LoadTestConfig()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.ModbusActor {
			return adactor.NewModbusActor(jbus.CreateTestClient(jbus.DefaultParams(), logger), logger)
		}, func(_ *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	require.NoError(t, err)
	return pid
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zap.Must(logCfg.Build())
}

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root
	logger := testLogger(t)

	pid := spawnTestMaster(t, context, logger)

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}

func TestMasterActorStatusRoundTrip(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root
	logger := testLogger(t)

	pid := spawnTestMaster(t, context, logger)

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.GetStatusRequest{}, 10*time.Second).Result()
	require.NoError(t, err)
	statusResp, ok := res.(domain.GetStatusResponse)
	require.True(t, ok)
	require.False(t, statusResp.HasResponseError())
	require.NotNil(t, statusResp.Status)
	assert.True(t, statusResp.Status.State.OnLine)

	res, err = context.RequestFuture(pid, domain.UPSCommandRequest{Name: jbus.CommandBeeperMute}, 10*time.Second).Result()
	require.NoError(t, err)
	cmdResp, ok := res.(domain.UPSCommandResponse)
	require.True(t, ok)
	assert.False(t, cmdResp.HasResponseError())

	context.Stop(pid)

	as.Shutdown()
}
