package jbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T) (*Client, *TestTransport) {
	t.Helper()
	transport := CreateTestTransport()
	client := NewClient(transport, DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())
	return client, transport
}

func TestScheduleEncode(t *testing.T) {

	encoded := encodeSchedule(ShutdownSchedule{
		DelaySeconds:   30,
		StandbyMinutes: 1,
		ScheduleType:   4,
	})
	assert.Equal(t, []uint16{0x00, 0x1E, 0x00, 0x01, 0x04}, encoded)

	// big endian byte split, one byte per register
	encoded = encodeSchedule(ShutdownSchedule{
		DelaySeconds:   600,
		StandbyMinutes: 300,
		ScheduleType:   1,
	})
	assert.Equal(t, []uint16{0x02, 0x58, 0x01, 0x2C, 0x01}, encoded)
}

func TestSimpleCommands(t *testing.T) {

	client, transport := testClient(t)

	for name, code := range map[string]uint16{
		CommandLoadOff:          0x05,
		CommandLoadOn:           0x06,
		CommandBeeperEnable:     0x07,
		CommandBeeperMute:       0x08,
		CommandTestPanelStart:   0x0D,
		CommandBeeperDisable:    0x0E,
		CommandTestBatteryStart: 0x10,
	} {
		transport.Writes = nil
		require.NoError(t, client.Command(name))
		require.Len(t, transport.Writes, 1)
		assert.Equal(t, controlAddr, transport.Writes[0].Addr)
		assert.Equal(t, []uint16{code}, transport.Writes[0].Values)
	}
}

func TestShutdownCommands(t *testing.T) {

	client, transport := testClient(t)

	require.NoError(t, client.Command(CommandShutdownReturn))
	require.Len(t, transport.Writes, 1)
	assert.Equal(t, scheduleAddr, transport.Writes[0].Addr)
	assert.Equal(t, []uint16{0x00, 0x1E, 0x00, 0x01, 0x04}, transport.Writes[0].Values)

	// stay off programs no restart
	transport.Writes = nil
	require.NoError(t, client.Command(CommandShutdownStayOff))
	require.Len(t, transport.Writes, 1)
	assert.Equal(t, []uint16{0x00, 0x1E, 0x00, 0x01, 0x00}, transport.Writes[0].Values)

	transport.Writes = nil
	require.NoError(t, client.Shutdown())
	require.Len(t, transport.Writes, 1)
	assert.Equal(t, scheduleAddr, transport.Writes[0].Addr)
}

func TestUnknownCommand(t *testing.T) {

	client, _ := testClient(t)

	err := client.Command("ups.frobnicate")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestShortWriteIsHandledFailure(t *testing.T) {

	client, transport := testClient(t)
	transport.WriteAck = func(addr uint16, values []uint16) (uint16, error) {
		return 0, nil
	}

	err := client.Command(CommandLoadOff)
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "write", terr.Op)
	assert.Equal(t, controlAddr, terr.Addr)
}

func TestSetStandbyDuration(t *testing.T) {

	client, _ := testClient(t)

	// 125 s is not a whole number of minutes
	err := client.SetStandbyDuration(125)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, uint16(1), client.Params().StandbyMinutes)

	require.NoError(t, client.SetStandbyDuration(120))
	assert.Equal(t, uint16(2), client.Params().StandbyMinutes)

	assert.Error(t, client.SetStandbyDuration(0))
	assert.Error(t, client.SetStandbyDuration(600000))
}

func TestSetLowBatteryThreshold(t *testing.T) {

	client, _ := testClient(t)

	require.NoError(t, client.SetLowBatteryThreshold(35))
	assert.Equal(t, 35, client.Params().LowBatteryThreshold)

	require.NoError(t, client.SetLowBatteryThreshold(ThresholdDisabled))
	require.NoError(t, client.SetLowBatteryThreshold(ThresholdDeviceBit))

	assert.Error(t, client.SetLowBatteryThreshold(5))
	assert.Error(t, client.SetLowBatteryThreshold(101))
	// rejected updates leave the stored value untouched
	assert.Equal(t, ThresholdDeviceBit, client.Params().LowBatteryThreshold)
}

func TestSetShutdownDelay(t *testing.T) {

	client, _ := testClient(t)

	require.NoError(t, client.SetShutdownDelay(120))
	assert.Equal(t, uint16(120), client.Params().ShutdownDelaySeconds)

	assert.Error(t, client.SetShutdownDelay(19))
	assert.Error(t, client.SetShutdownDelay(601))
}

func TestSetScheduleType(t *testing.T) {

	client, _ := testClient(t)

	for _, v := range []int{0, 1, 4} {
		require.NoError(t, client.SetScheduleType(v))
	}
	assert.Error(t, client.SetScheduleType(2))
	assert.Error(t, client.SetScheduleType(15))
}

func TestParamsSetters(t *testing.T) {

	// the same validation gates values that arrive before a client exists,
	// e.g. from the boot configuration
	var p Params

	require.NoError(t, p.SetLowBatteryThreshold(30))
	require.NoError(t, p.SetShutdownDelay(60))
	require.NoError(t, p.SetStandbyDuration(180))
	require.NoError(t, p.SetScheduleType(4))
	assert.Equal(t, Params{
		LowBatteryThreshold:  30,
		ShutdownDelaySeconds: 60,
		StandbyMinutes:       3,
		ScheduleType:         4,
	}, p)

	assert.Error(t, p.SetLowBatteryThreshold(5))
	assert.Error(t, p.SetShutdownDelay(5))
	assert.Error(t, p.SetStandbyDuration(90))
	assert.Error(t, p.SetScheduleType(3))
	assert.Equal(t, uint16(4), p.ScheduleType)
}

func TestSetParamDispatch(t *testing.T) {

	client, _ := testClient(t)

	require.NoError(t, client.SetParam(ParamLowBatteryThreshold, 30))
	require.NoError(t, client.SetParam(ParamShutdownDelay, 60))
	require.NoError(t, client.SetParam(ParamStandbyDuration, 180))
	require.NoError(t, client.SetParam(ParamScheduleType, 1))

	assert.Equal(t, Params{
		LowBatteryThreshold:  30,
		ShutdownDelaySeconds: 60,
		StandbyMinutes:       3,
		ScheduleType:         1,
	}, client.Params())

	assert.ErrorIs(t, client.SetParam("nope", 1), ErrUnknownParameter)
}
