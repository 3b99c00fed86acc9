package jbus

import (
	"fmt"
)

// LineMeasurements are the per phase readings of a 3 phase unit. Load and
// voltages are published unconditionally, the current is sentinel guarded.
type LineMeasurements struct {
	LoadPercent   uint16
	BypassVoltage uint16
	OutputVoltage uint16
	OutputCurrent *uint16
}

// Measurements are the scaled readings of the 48 register measurement window.
// Optional fields are nil when the source register holds the sentinel.
type Measurements struct {
	SinglePhase bool

	// aggregate load, unconditional
	LoadPercent uint16

	// single phase fields
	BypassVoltage uint16
	OutputVoltage uint16
	OutputCurrent *uint16

	// three phase fields
	Lines [3]LineMeasurements

	BatteryCharge         *uint16
	BatteryCapacityAh     *float64
	BatteryVoltage        *float64
	BatteryCurrent        *float64
	BatteryRuntimeSeconds *uint16
	BypassFrequency       *float64
	OutputFrequency       *float64
	AmbientTemperature    *uint16
}

func optUint16(raw uint16) *uint16 {
	if raw == Sentinel {
		return nil
	}
	v := raw
	return &v
}

func optScaled10(raw uint16) *float64 {
	if raw == Sentinel {
		return nil
	}
	v := float64(raw) / 10
	return &v
}

// decodeMeasurements interprets the measurement window. A unit reporting the
// sentinel at offsets 1 and 2 is single phase, anything else is three phase.
func decodeMeasurements(regs []uint16) Measurements {
	var m Measurements

	if regs[1] == Sentinel && regs[2] == Sentinel {
		m.SinglePhase = true
		m.LoadPercent = regs[0]
		m.BypassVoltage = regs[6]
		m.OutputVoltage = regs[9]
		m.OutputCurrent = optUint16(regs[15])
	} else {
		m.LoadPercent = regs[3]
		for i := 0; i < 3; i++ {
			m.Lines[i] = LineMeasurements{
				LoadPercent:   regs[0+i],
				BypassVoltage: regs[6+i],
				OutputVoltage: regs[9+i],
				OutputCurrent: optUint16(regs[15+i]),
			}
		}
	}

	m.BatteryCharge = optUint16(regs[4])
	m.BatteryCapacityAh = optScaled10(regs[5])
	m.BypassFrequency = optScaled10(regs[18])
	m.OutputFrequency = optScaled10(regs[19])
	m.BatteryVoltage = optScaled10(regs[20])
	m.AmbientTemperature = optUint16(regs[22])
	m.BatteryRuntimeSeconds = optUint16(regs[23])
	m.BatteryCurrent = optScaled10(regs[24])

	return m
}

// decodeClock renders the device wall clock. The byte packing is the
// device's own: seconds share a register with minutes, the year is an offset
// from 2000.
func decodeClock(regs []uint16) DeviceClock {
	return DeviceClock{
		Time: fmt.Sprintf("%02d:%02d:%02d", regs[1]&0xFF, regs[0]>>8, regs[0]&0xFF),
		Date: fmt.Sprintf("%04d/%02d/%02d", regs[3]+2000, regs[2]>>8, regs[1]>>8),
	}
}

// decodeNominal interprets the rated configuration block.
func decodeNominal(regs []uint16) NominalConfig {
	return NominalConfig{
		InputVoltage:      regs[0],
		OutputVoltage:     regs[1],
		InputFrequency:    regs[2],
		OutputFrequency:   regs[3],
		BatteryCapacityAh: float64(regs[8]) / 10,
		BatteryElements:   regs[9],
	}
}
