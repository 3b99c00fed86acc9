package actor

import (
	"testing"
	"time"

	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/internal/util/actorutil"
	"socomec2mqtt/pkg/jbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetDeviceInfoModbusActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewModbusActor(jbus.CreateTestClient(jbus.DefaultParams(), logger), logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetDeviceInfoRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetDeviceInfoResponse)

	assert.Equal("DIGYS", resp.Identity.Model, "UPS model")
	assert.Equal("SOC1234567", resp.Identity.Serial, "UPS serial")
	assert.Equal(uint32(6000), resp.Identity.PowerRatingVA, "UPS power rating")
	assert.NotNil(resp.Nominal)

	context.Stop(pid)

	as.Shutdown()
}

func TestGetStatusModbusActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewModbusActor(jbus.CreateTestClient(jbus.DefaultParams(), logger), logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetStatusRequest{}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetStatusResponse)

	assert.False(resp.HasResponseError())
	assert.True(resp.Status.State.OnLine, "supply present implies on line")
	assert.False(resp.Status.State.OnBattery, "not on battery")
	assert.Equal([]string{"OL"}, resp.Status.State.Tokens(), "status tokens")

	context.Stop(pid)

	as.Shutdown()
}

func TestSetParamModbusActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewModbusActor(jbus.CreateTestClient(jbus.DefaultParams(), logger), logger)
	})
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.SetParamRequest{
		Name:  jbus.ParamLowBatteryThreshold,
		Value: 35,
	}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetParamResponse)
	assert.False(resp.HasResponseError())
	assert.Equal(35, resp.Params.LowBatteryThreshold)

	// invalid values are rejected and the stored value is untouched
	result, err = context.RequestFuture(pid, domain.SetParamRequest{
		Name:  jbus.ParamLowBatteryThreshold,
		Value: 5,
	}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.SetParamResponse)
	assert.True(resp.HasResponseError())
	assert.Equal(35, resp.Params.LowBatteryThreshold)

	context.Stop(pid)

	as.Shutdown()
}
