package jbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusWindow(reg0 uint16) []uint16 {
	regs := make([]uint16, 6)
	regs[0] = reg0
	return regs
}

func TestStatusOnLine(t *testing.T) {

	session := SessionState{}
	bits := decodeStatusBits(statusWindow(1<<0 | 1<<1))
	state := deriveState(bits, 20, &session)

	assert.True(t, state.OnLine)
	assert.False(t, state.OnBattery)
	assert.False(t, state.Off)
	assert.Equal(t, ChargingOrIdle, session.Discharge)
	assert.Equal(t, []string{"OL"}, state.Tokens())
}

func TestStatusOnBattery(t *testing.T) {

	session := SessionState{}
	bits := decodeStatusBits(statusWindow(1<<1 | 1<<5))
	state := deriveState(bits, 20, &session)

	assert.False(t, state.OnLine)
	assert.True(t, state.OnBattery)
	assert.Equal(t, Discharging, session.Discharge)
}

func TestStatusBatteryTestOverride(t *testing.T) {

	// a running self test reports on battery without a real outage
	session := SessionState{Discharge: ChargingOrIdle}
	bits := decodeStatusBits(statusWindow(1<<1 | 1<<5 | 1<<10))
	state := deriveState(bits, 20, &session)

	assert.True(t, state.OnLine)
	assert.False(t, state.OnBattery)
	assert.Equal(t, ChargingOrIdle, session.Discharge)
}

func TestStatusOffCoexistsWithOnLine(t *testing.T) {

	// supply present, inverter off: both facts must survive
	session := SessionState{}
	bits := decodeStatusBits(statusWindow(1 << 0))
	state := deriveState(bits, 20, &session)

	assert.True(t, state.OnLine)
	assert.True(t, state.Off)
	assert.Equal(t, []string{"OL", "OFF"}, state.Tokens())
}

func TestStatusZeroWindow(t *testing.T) {

	// a failed read leaves an all zero window: no bit driven assertions,
	// only the inverter-off fact from the cleared bit
	session := SessionState{Discharge: Discharging}
	bits := decodeStatusBits(make([]uint16, 6))
	state := deriveState(bits, 20, &session)

	assert.False(t, state.OnLine)
	assert.False(t, state.OnBattery)
	assert.False(t, state.LowBattery)
	assert.True(t, state.Off)
	// the discharge flag from the previous cycle is untouched
	assert.Equal(t, Discharging, session.Discharge)
	assert.Empty(t, decodeAlarms(make([]uint16, alarmLen)))
}

func TestLowBatteryFromDeviceBit(t *testing.T) {

	session := SessionState{}
	bits := decodeStatusBits(statusWindow(1<<1 | 1<<5 | 1<<15))

	state := deriveState(bits, ThresholdDeviceBit, &session)
	assert.True(t, state.LowBattery)

	// with a numeric threshold configured the device bit is ignored
	state = deriveState(bits, 20, &session)
	assert.False(t, state.LowBattery)
}

func TestEstimateLowBattery(t *testing.T) {

	charge := uint16(15)
	m := Measurements{BatteryCharge: &charge}

	discharging := SessionState{Discharge: Discharging}
	idle := SessionState{Discharge: ChargingOrIdle}

	assert.True(t, estimateLowBattery(&m, 20, &discharging))
	assert.False(t, estimateLowBattery(&m, 10, &discharging))
	assert.False(t, estimateLowBattery(&m, 20, &idle))
	assert.False(t, estimateLowBattery(&m, ThresholdDisabled, &discharging))
	assert.False(t, estimateLowBattery(&m, ThresholdDeviceBit, &discharging))

	// no charge reading, no estimate
	assert.False(t, estimateLowBattery(&Measurements{}, 20, &discharging))
}

func TestDecodeAlarms(t *testing.T) {

	regs := make([]uint16, alarmLen)
	regs[0] = 1<<0 | 1<<2 | 1<<7
	regs[1] = 1 << 15
	regs[3] = 1 << 6

	alarms := decodeAlarms(regs)

	assert.Len(t, alarms, 5)
	assert.Contains(t, alarms, AlarmGeneral)
	assert.Contains(t, alarms, AlarmOverload)
	assert.Contains(t, alarms, AlarmOverTemperature)
	assert.Contains(t, alarms, AlarmImminentStop)
	assert.Contains(t, alarms, AlarmInverterCritical)
}

func TestExtendedStatusWindow(t *testing.T) {

	regs := make([]uint16, 6)
	regs[4] = 1<<3 | 1<<12

	bits := decodeStatusBits(regs)
	assert.True(t, bits.BypassBreakerClosed)
	assert.True(t, bits.NormalMode)

	// the short ITYS window carries no extended bits
	short := decodeStatusBits(make([]uint16, 4))
	assert.False(t, short.NormalMode)
}
