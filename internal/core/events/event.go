package events

import (
	"fmt"
	"strings"

	. "socomec2mqtt/internal/core/domain"
	"socomec2mqtt/pkg/jbus"
)

func StatusToUpdateEvents(snap *jbus.StatusSnapshot) []any {
	var events []any

	// UPS Status tokens
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_UPS_STATUS,
		},
		Value: strings.Join(snap.State.Tokens(), " "),
	})
	// Active alarms
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_UPS_ALARMS,
		},
		Value: alarmText(snap.Alarms),
	})
	// On Battery
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: BINARY_SENSOR_ID_ON_BATTERY,
		},
		Value: snap.State.OnBattery,
	})
	// Low Battery
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: BINARY_SENSOR_ID_LOW_BATTERY,
		},
		Value: snap.State.LowBattery,
	})
	// On Bypass
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: BINARY_SENSOR_ID_ON_BYPASS,
		},
		Value: snap.Bits.OnAutoBypass,
	})
	// Battery charge/discharge state
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BATTERY_STATE,
		},
		Value: snap.Discharge.String(),
	})
	// Load switch mirrors the load protection state
	events = append(events, LoadSwitchUpdateEvent(snap.Bits.LoadProtected))

	// Device Clock
	if snap.Clock != nil {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_DEVICE_CLOCK,
			},
			Value: fmt.Sprintf("%s %s", snap.Clock.Date, snap.Clock.Time),
		})
	}

	events = append(events, measurementsToUpdateEvents(&snap.Measurements)...)

	return events
}

func measurementsToUpdateEvents(m *jbus.Measurements) []any {
	var events []any

	// UPS Load
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_UPS_LOAD,
		},
		Value: float64(m.LoadPercent),
	})
	// aggregate voltages are single phase readings, three phase units report
	// per line values instead
	if m.SinglePhase {
		// Bypass Voltage
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BYPASS_VOLTAGE,
			},
			Value: float64(m.BypassVoltage),
		})
		// Output Voltage
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_OUTPUT_VOLTAGE,
			},
			Value: float64(m.OutputVoltage),
		})
	}
	if m.OutputCurrent != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_OUTPUT_CURRENT,
			},
			Value: float64(*m.OutputCurrent),
		})
	}
	if !m.SinglePhase {
		events = append(events, lineMeasurementEvents(m)...)
	}
	if m.BatteryCharge != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BATTERY_CHARGE,
			},
			Value: float64(*m.BatteryCharge),
		})
	}
	if m.BatteryVoltage != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BATTERY_VOLTAGE,
			},
			Value:    *m.BatteryVoltage,
			Decimals: 1,
		})
	}
	if m.BatteryCurrent != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BATTERY_CURRENT,
			},
			Value:    *m.BatteryCurrent,
			Decimals: 1,
		})
	}
	if m.BatteryRuntimeSeconds != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BATTERY_RUNTIME,
			},
			Value: float64(*m.BatteryRuntimeSeconds),
		})
	}
	if m.BypassFrequency != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_BYPASS_FREQUENCY,
			},
			Value:    *m.BypassFrequency,
			Decimals: 1,
		})
	}
	if m.OutputFrequency != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_OUTPUT_FREQUENCY,
			},
			Value:    *m.OutputFrequency,
			Decimals: 1,
		})
	}
	if m.AmbientTemperature != nil {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SENSOR_ID_AMBIENT_TEMP,
			},
			Value: float64(*m.AmbientTemperature),
		})
	}

	return events
}

// lineMeasurementEvents maps per phase readings to "<id>_l<n>" sensor ids.
// These topics are not announced in discovery.
func lineMeasurementEvents(m *jbus.Measurements) []any {
	var events []any

	for i, line := range m.Lines {
		n := i + 1
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: fmt.Sprintf("%s_l%d", SENSOR_ID_UPS_LOAD, n),
			},
			Value: float64(line.LoadPercent),
		})
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: fmt.Sprintf("%s_l%d", SENSOR_ID_BYPASS_VOLTAGE, n),
			},
			Value: float64(line.BypassVoltage),
		})
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: fmt.Sprintf("%s_l%d", SENSOR_ID_OUTPUT_VOLTAGE, n),
			},
			Value: float64(line.OutputVoltage),
		})
		if line.OutputCurrent != nil {
			events = append(events, FloatSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: fmt.Sprintf("%s_l%d", SENSOR_ID_OUTPUT_CURRENT, n),
				},
				Value: float64(*line.OutputCurrent),
			})
		}
	}

	return events
}

func ParamsToUpdateEvents(params jbus.Params) []any {
	var events []any

	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_BATTERY_LOW,
		},
		Value: float64(params.LowBatteryThreshold),
	})
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_SHUTDOWN_DELAY,
		},
		Value: float64(params.ShutdownDelaySeconds),
	})
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_SHUTDOWN_STANDBY,
		},
		Value: float64(params.StandbyMinutes),
	})
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_SHUTDOWN_TYPE,
		},
		Value: float64(params.ScheduleType),
	})

	return events
}

func LoadSwitchUpdateEvent(on bool) any {
	return SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SWITCH_ID_LOAD,
		},
		Value: on,
	}
}

func alarmText(alarms []jbus.Alarm) string {
	if len(alarms) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(alarms))
	for _, a := range alarms {
		parts = append(parts, string(a))
	}
	return strings.Join(parts, ", ")
}
