package jbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementsSinglePhase(t *testing.T) {

	regs := make([]uint16, measurementLen)
	regs[0] = 42
	regs[1] = Sentinel
	regs[2] = Sentinel
	regs[6] = 229
	regs[9] = 230
	regs[15] = 5

	m := decodeMeasurements(regs)

	assert.True(t, m.SinglePhase)
	assert.Equal(t, uint16(42), m.LoadPercent)
	assert.Equal(t, uint16(229), m.BypassVoltage)
	assert.Equal(t, uint16(230), m.OutputVoltage)
	require.NotNil(t, m.OutputCurrent)
	assert.Equal(t, uint16(5), *m.OutputCurrent)
}

func TestMeasurementsThreePhase(t *testing.T) {

	regs := make([]uint16, measurementLen)
	regs[0], regs[1], regs[2] = 31, 28, 35
	regs[3] = 31
	regs[6], regs[7], regs[8] = 230, 231, 229
	regs[9], regs[10], regs[11] = 230, 230, 231
	regs[15] = 8
	regs[16] = Sentinel
	regs[17] = 9

	m := decodeMeasurements(regs)

	assert.False(t, m.SinglePhase)
	assert.Equal(t, uint16(31), m.LoadPercent)
	assert.Equal(t, uint16(28), m.Lines[1].LoadPercent)
	assert.Equal(t, uint16(231), m.Lines[1].BypassVoltage)
	assert.Equal(t, uint16(231), m.Lines[2].OutputVoltage)
	require.NotNil(t, m.Lines[0].OutputCurrent)
	assert.Equal(t, uint16(8), *m.Lines[0].OutputCurrent)
	assert.Nil(t, m.Lines[1].OutputCurrent)
	require.NotNil(t, m.Lines[2].OutputCurrent)
}

func TestMeasurementsPhaseDetection(t *testing.T) {

	regs := make([]uint16, measurementLen)
	regs[1] = Sentinel
	// only one sentinel: still three phase
	assert.False(t, decodeMeasurements(regs).SinglePhase)

	regs[2] = Sentinel
	assert.True(t, decodeMeasurements(regs).SinglePhase)
}

func TestMeasurementsScaling(t *testing.T) {

	regs := make([]uint16, measurementLen)
	regs[4] = 87
	regs[5] = 920
	regs[18] = 499
	regs[19] = 500
	regs[20] = 816
	regs[22] = 24
	regs[23] = 540
	regs[24] = 31

	m := decodeMeasurements(regs)

	require.NotNil(t, m.BatteryCharge)
	assert.Equal(t, uint16(87), *m.BatteryCharge)
	require.NotNil(t, m.BatteryCapacityAh)
	assert.Equal(t, 92.0, *m.BatteryCapacityAh)
	require.NotNil(t, m.BypassFrequency)
	assert.Equal(t, 49.9, *m.BypassFrequency)
	require.NotNil(t, m.OutputFrequency)
	assert.Equal(t, 50.0, *m.OutputFrequency)
	require.NotNil(t, m.BatteryVoltage)
	assert.Equal(t, 81.6, *m.BatteryVoltage)
	require.NotNil(t, m.AmbientTemperature)
	assert.Equal(t, uint16(24), *m.AmbientTemperature)
	require.NotNil(t, m.BatteryRuntimeSeconds)
	assert.Equal(t, uint16(540), *m.BatteryRuntimeSeconds)
	require.NotNil(t, m.BatteryCurrent)
	assert.Equal(t, 3.1, *m.BatteryCurrent)
}

func TestMeasurementsSentinelOptionals(t *testing.T) {

	regs := make([]uint16, measurementLen)
	for _, off := range []int{4, 5, 18, 19, 20, 22, 23, 24} {
		regs[off] = Sentinel
	}

	m := decodeMeasurements(regs)

	assert.Nil(t, m.BatteryCharge)
	assert.Nil(t, m.BatteryCapacityAh)
	assert.Nil(t, m.BypassFrequency)
	assert.Nil(t, m.OutputFrequency)
	assert.Nil(t, m.BatteryVoltage)
	assert.Nil(t, m.AmbientTemperature)
	assert.Nil(t, m.BatteryRuntimeSeconds)
	assert.Nil(t, m.BatteryCurrent)
}

func TestDeviceClock(t *testing.T) {

	clock := decodeClock([]uint16{0x1E0F, 0x0C09, 0x0800, 25})

	assert.Equal(t, "09:30:15", clock.Time)
	assert.Equal(t, "2025/08/12", clock.Date)
}

func TestNominalConfig(t *testing.T) {

	regs := make([]uint16, nominalLen)
	regs[0], regs[1] = 230, 230
	regs[2], regs[3] = 50, 50
	regs[8] = 925
	regs[9] = 24

	nom := decodeNominal(regs)

	assert.Equal(t, uint16(230), nom.InputVoltage)
	assert.Equal(t, uint16(50), nom.OutputFrequency)
	assert.Equal(t, 92.5, nom.BatteryCapacityAh)
	assert.Equal(t, uint16(24), nom.BatteryElements)
}
