package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	. "socomec2mqtt/internal/core/domain"
	"socomec2mqtt/pkg/jbus"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE           = "bridge"
	SENSOR_ID_UPS_STATUS             = "ups_status"
	SENSOR_ID_UPS_ALARMS             = "ups_alarms"
	SENSOR_ID_UPS_LOAD               = "ups_load"
	SENSOR_ID_BATTERY_CHARGE         = "battery_charge"
	SENSOR_ID_BATTERY_VOLTAGE        = "battery_voltage"
	SENSOR_ID_BATTERY_CURRENT        = "battery_current"
	SENSOR_ID_BATTERY_RUNTIME        = "battery_runtime"
	SENSOR_ID_BATTERY_STATE          = "battery_state"
	SENSOR_ID_BYPASS_VOLTAGE         = "bypass_voltage"
	SENSOR_ID_OUTPUT_VOLTAGE         = "output_voltage"
	SENSOR_ID_OUTPUT_CURRENT         = "output_current"
	SENSOR_ID_BYPASS_FREQUENCY       = "bypass_frequency"
	SENSOR_ID_OUTPUT_FREQUENCY       = "output_frequency"
	SENSOR_ID_AMBIENT_TEMP           = "ambient_temperature"
	SENSOR_ID_DEVICE_CLOCK           = "device_clock"
	BINARY_SENSOR_ID_ON_BATTERY      = "on_battery"
	BINARY_SENSOR_ID_LOW_BATTERY     = "low_battery"
	BINARY_SENSOR_ID_ON_BYPASS       = "on_bypass"
	SWITCH_ID_LOAD                   = "load"
	INPUT_NUMBER_ID_BATTERY_LOW      = "battery_charge_low"
	INPUT_NUMBER_ID_SHUTDOWN_DELAY   = "shutdown_delay"
	INPUT_NUMBER_ID_SHUTDOWN_STANDBY = "shutdown_standby"
	INPUT_NUMBER_ID_SHUTDOWN_TYPE    = "shutdown_type"
	STATE_CLASS_DURATION             = "duration"
	STATE_CLASS_MEASUREMENT          = "measurement"
	DEVICE_CLASS_BATTERY             = "battery"
	DEVICE_CLASS_CURRENT             = "current"
	DEVICE_CLASS_DURATION            = "duration"
	DEVICE_CLASS_FREQUENCY           = "frequency"
	DEVICE_CLASS_POWER_FACTOR        = "power_factor"
	DEVICE_CLASS_TEMPERATURE         = "temperature"
	DEVICE_CLASS_VOLTAGE             = "voltage"
	DEVICE_CLASS_CONNECTIVITY        = "connectivity"
	DEVICE_CLASS_PROBLEM             = "problem"
	ENTITY_CLASS_DIAGNOSTIC          = "diagnostic"
	ENTITY_CLASS_CONFIG              = "config"
	SENSOR_TYPE_SENSOR               = "sensor"
	SENSOR_TYPE_BINARY               = "binary_sensor"
	INPUT_NUMBER_MODE_BOX            = "box"
	INPUT_NUMBER_MODE_SLIDER         = "slider"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("socomec_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "socomec2mqtt",
		Model:        "Socomec JBUS bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Socomec bridge %s", md5HashShort(baseTopic)),
	}
}

func UPSDevice(info *jbus.DeviceIdentity) Device {
	// some units ship without a programmed serial
	uid := info.Serial
	if uid == "" {
		uid = info.Model
	}
	return Device{
		Id:           fmt.Sprintf("soc_ups_%s", md5HashShort(uid)),
		Manufacturer: "Socomec",
		Model:        info.Model,
		Name:         fmt.Sprintf("Socomec %s %s", info.Model, md5HashShort(uid)),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func UPSBaseSensors(upsDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// UPS Status
	sensors = append(sensors, GenericSensor{
		Device:     upsDevice,
		Id:         SENSOR_ID_UPS_STATUS,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "UPS status",
		UniqueId:   uniqueId(upsDevice.Id, SENSOR_ID_UPS_STATUS),
	})

	// UPS Alarms
	sensors = append(sensors, GenericSensor{
		Device:         upsDevice,
		Id:             SENSOR_ID_UPS_ALARMS,
		SensorType:     SENSOR_TYPE_SENSOR,
		Name:           "UPS alarms",
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		Icon:           "mdi:alert",
		UniqueId:       uniqueId(upsDevice.Id, SENSOR_ID_UPS_ALARMS),
	})

	// UPS Load
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_UPS_LOAD,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "UPS load",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_POWER_FACTOR,
		UnitOfMeasurement: "%",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_UPS_LOAD),
	})

	// Bypass Voltage
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BYPASS_VOLTAGE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Bypass voltage",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_VOLTAGE,
		UnitOfMeasurement: "V",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BYPASS_VOLTAGE),
	})

	// Output Voltage
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_OUTPUT_VOLTAGE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Output voltage",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_VOLTAGE,
		UnitOfMeasurement: "V",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_OUTPUT_VOLTAGE),
	})

	// Output Current
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_OUTPUT_CURRENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Output current",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_CURRENT,
		UnitOfMeasurement: "A",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_OUTPUT_CURRENT),
	})

	// Bypass Frequency
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BYPASS_FREQUENCY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Bypass frequency",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_FREQUENCY,
		UnitOfMeasurement: "Hz",
		Icon:              "mdi:sine-wave",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BYPASS_FREQUENCY),
	})

	// Output Frequency
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_OUTPUT_FREQUENCY,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Output frequency",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_FREQUENCY,
		UnitOfMeasurement: "Hz",
		Icon:              "mdi:sine-wave",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_OUTPUT_FREQUENCY),
	})

	// Ambient Temperature
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_AMBIENT_TEMP,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Ambient temperature",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: "°C",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_AMBIENT_TEMP),
	})

	// Device Clock
	sensors = append(sensors, GenericSensor{
		Device:           upsDevice,
		Id:               SENSOR_ID_DEVICE_CLOCK,
		SensorType:       SENSOR_TYPE_SENSOR,
		Name:             "Device clock",
		EntityCategory:   ENTITY_CLASS_DIAGNOSTIC,
		Icon:             "mdi:clock-outline",
		EnabledByDefault: optionalBool(false),
		UniqueId:         uniqueId(upsDevice.Id, SENSOR_ID_DEVICE_CLOCK),
	})

	// On Battery
	sensors = append(sensors, GenericSensor{
		Device:      upsDevice,
		Id:          BINARY_SENSOR_ID_ON_BATTERY,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        "On battery",
		DeviceClass: DEVICE_CLASS_PROBLEM,
		UniqueId:    uniqueId(upsDevice.Id, BINARY_SENSOR_ID_ON_BATTERY),
	})

	// Low Battery
	sensors = append(sensors, GenericSensor{
		Device:      upsDevice,
		Id:          BINARY_SENSOR_ID_LOW_BATTERY,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        "Low battery",
		DeviceClass: DEVICE_CLASS_BATTERY,
		UniqueId:    uniqueId(upsDevice.Id, BINARY_SENSOR_ID_LOW_BATTERY),
	})

	// On Bypass
	sensors = append(sensors, GenericSensor{
		Device:      upsDevice,
		Id:          BINARY_SENSOR_ID_ON_BYPASS,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        "On bypass",
		DeviceClass: DEVICE_CLASS_PROBLEM,
		UniqueId:    uniqueId(upsDevice.Id, BINARY_SENSOR_ID_ON_BYPASS),
	})

	return sensors
}

func UPSBatterySensors(upsDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Battery Charge
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BATTERY_CHARGE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery charge",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_BATTERY,
		UnitOfMeasurement: "%",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BATTERY_CHARGE),
	})

	// Battery Voltage
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BATTERY_VOLTAGE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery voltage",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_VOLTAGE,
		UnitOfMeasurement: "V",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BATTERY_VOLTAGE),
	})

	// Battery Current
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BATTERY_CURRENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery current",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_CURRENT,
		UnitOfMeasurement: "A",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BATTERY_CURRENT),
	})

	// Battery Runtime
	sensors = append(sensors, GenericSensor{
		Device:            upsDevice,
		Id:                SENSOR_ID_BATTERY_RUNTIME,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery runtime",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_DURATION,
		UnitOfMeasurement: "s",
		UniqueId:          uniqueId(upsDevice.Id, SENSOR_ID_BATTERY_RUNTIME),
	})

	// Battery State
	sensors = append(sensors, GenericSensor{
		Device:     upsDevice,
		Id:         SENSOR_ID_BATTERY_STATE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Battery state",
		UniqueId:   uniqueId(upsDevice.Id, SENSOR_ID_BATTERY_STATE),
	})

	return sensors
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func UPSControlSwitches(upsDevice Device) []GenericSwitch {

	var switches []GenericSwitch

	// Load on/off
	switches = append(switches, GenericSwitch{
		Device:   upsDevice,
		Id:       SWITCH_ID_LOAD,
		Name:     "Load",
		UniqueId: uniqueId(upsDevice.Id, SWITCH_ID_LOAD),
		Icon:     "mdi:power-plug",
	})

	return switches
}

func UPSControlInputNumbers(upsDevice Device, params jbus.Params) []GenericInputNumber {

	var inputNumbers []GenericInputNumber

	// Low battery threshold
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:       upsDevice,
		Id:           INPUT_NUMBER_ID_BATTERY_LOW,
		Name:         "Low battery threshold",
		UniqueId:     uniqueId(upsDevice.Id, INPUT_NUMBER_ID_BATTERY_LOW),
		Icon:         "mdi:battery-alert",
		Max:          100,
		Min:          10,
		Step:         5,
		Mode:         INPUT_NUMBER_MODE_SLIDER,
		InitialValue: float64(params.LowBatteryThreshold),
	})

	// Shutdown delay
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:       upsDevice,
		Id:           INPUT_NUMBER_ID_SHUTDOWN_DELAY,
		Name:         "Shutdown delay",
		UniqueId:     uniqueId(upsDevice.Id, INPUT_NUMBER_ID_SHUTDOWN_DELAY),
		Icon:         "mdi:timer-sand",
		Max:          600,
		Min:          20,
		Step:         10,
		Mode:         INPUT_NUMBER_MODE_BOX,
		InitialValue: float64(params.ShutdownDelaySeconds),
	})

	// Standby duration, minutes
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:       upsDevice,
		Id:           INPUT_NUMBER_ID_SHUTDOWN_STANDBY,
		Name:         "Standby duration",
		UniqueId:     uniqueId(upsDevice.Id, INPUT_NUMBER_ID_SHUTDOWN_STANDBY),
		Icon:         "mdi:sleep",
		Max:          9999,
		Min:          1,
		Step:         1,
		Mode:         INPUT_NUMBER_MODE_BOX,
		InitialValue: float64(params.StandbyMinutes),
	})

	// Schedule type
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:       upsDevice,
		Id:           INPUT_NUMBER_ID_SHUTDOWN_TYPE,
		Name:         "Shutdown schedule type",
		UniqueId:     uniqueId(upsDevice.Id, INPUT_NUMBER_ID_SHUTDOWN_TYPE),
		Icon:         "mdi:calendar-clock",
		Max:          4,
		Min:          0,
		Step:         1,
		Mode:         INPUT_NUMBER_MODE_BOX,
		InitialValue: float64(params.ScheduleType),
	})

	return inputNumbers
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
