package jbus

import (
	"errors"
	"fmt"
)

// device families
const (
	FamilyUnknown Family = iota
	FamilyITYS
	FamilyDIGYS
	FamilyDelphysMX
	FamilyDelphysMXElite
)

type Family int

var familyCodes = map[uint16]Family{
	30:  FamilyITYS,
	130: FamilyDIGYS,
	515: FamilyDelphysMX,
	516: FamilyDelphysMXElite,
}

func (f Family) String() string {
	switch f {
	case FamilyITYS:
		return "ITYS"
	case FamilyDIGYS:
		return "DIGYS"
	case FamilyDelphysMX:
		return "DELPHYS MX"
	case FamilyDelphysMXElite:
		return "DELPHYS MX elite"
	default:
		return "unknown"
	}
}

// StatusWindowLen is the number of status registers the family reports.
func (f Family) StatusWindowLen() uint16 {
	if f == FamilyITYS {
		return 4
	}
	return 6
}

// DeviceIdentity is read once at session start and immutable afterwards.
type DeviceIdentity struct {
	Code          uint16
	Family        Family
	Model         string
	PowerRatingVA uint32
	Serial        string
}

// discharge states, carried across poll cycles
const (
	DischargeUnknown DischargeState = iota
	ChargingOrIdle
	Discharging
)

type DischargeState int

func (d DischargeState) String() string {
	switch d {
	case ChargingOrIdle:
		return "charging_or_idle"
	case Discharging:
		return "discharging"
	default:
		return "unknown"
	}
}

// SessionState holds the only mutable state shared between poll cycles.
// The discharge flag set by one cycle's status decode feeds the same cycle's
// low battery estimate and survives into the next cycle if the status read
// fails there.
type SessionState struct {
	Discharge DischargeState
}

// OperatingState is a set of independent facts, not an exclusive enum. The
// device can report several at once during transitions (e.g. ON_LINE together
// with OFF) and all of them must survive to the published summary.
type OperatingState struct {
	OnLine     bool
	OnBattery  bool
	Off        bool
	LowBattery bool
}

// Tokens renders the state as NUT style status tokens, precedence order.
func (s OperatingState) Tokens() []string {
	var out []string
	if s.OnLine {
		out = append(out, "OL")
	}
	if s.OnBattery {
		out = append(out, "OB")
	}
	if s.Off {
		out = append(out, "OFF")
	}
	if s.LowBattery {
		out = append(out, "LB")
	}
	return out
}

// StatusSnapshot is rebuilt from scratch on every poll cycle.
type StatusSnapshot struct {
	State        OperatingState
	Discharge    DischargeState
	Bits         StatusBits
	Alarms       []Alarm
	Measurements Measurements
	Clock        *DeviceClock
}

// DeviceClock is the device's own wall clock, decoded per cycle.
type DeviceClock struct {
	Time string
	Date string
}

// NominalConfig is the device's rated configuration block, read once after
// identification. All fields are rated values, not live measurements.
type NominalConfig struct {
	InputVoltage      uint16
	OutputVoltage     uint16
	InputFrequency    uint16
	OutputFrequency   uint16
	BatteryCapacityAh float64
	BatteryElements   uint16
}

// ShutdownSchedule is what shutdown class commands encode into registers.
type ShutdownSchedule struct {
	DelaySeconds   uint16
	StandbyMinutes uint16
	ScheduleType   uint16
}

// low battery threshold sentinels
const (
	ThresholdDisabled  = 0
	ThresholdDeviceBit = -1
)

// Params are the operator adjustable values. They live for the session only,
// the device cannot retain them.
type Params struct {
	// LowBatteryThreshold is a battery charge percent (10-100). 0 disables
	// the charge based estimate, -1 trusts the device's own low battery bit
	// instead.
	LowBatteryThreshold  int
	ShutdownDelaySeconds uint16
	StandbyMinutes       uint16
	ScheduleType         uint16
}

func DefaultParams() Params {
	return Params{
		LowBatteryThreshold:  20,
		ShutdownDelaySeconds: 30,
		StandbyMinutes:       1,
		ScheduleType:         4,
	}
}

// Schedule builds the shutdown schedule from the current parameter values.
func (p Params) Schedule() ShutdownSchedule {
	return ShutdownSchedule{
		DelaySeconds:   p.ShutdownDelaySeconds,
		StandbyMinutes: p.StandbyMinutes,
		ScheduleType:   p.ScheduleType,
	}
}

// adjustable parameter names
const (
	ParamLowBatteryThreshold = "battery.charge.low"
	ParamShutdownDelay       = "shutdown.delay"
	ParamStandbyDuration     = "shutdown.standby"
	ParamScheduleType        = "shutdown.type"
)

// TransportError wraps a failed or short register transfer.
type TransportError struct {
	Op    string
	Addr  uint16
	Count uint16
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("jbus: %s 0x%04X/%d: %s", e.Op, e.Addr, e.Count, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError is a rejected parameter update. The stored value is
// unchanged.
type ValidationError struct {
	Param  string
	Value  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("jbus: invalid %s = %d: %s", e.Param, e.Value, e.Reason)
}

var (
	ErrUnknownCommand   = errors.New("jbus: unknown command")
	ErrUnknownParameter = errors.New("jbus: unknown parameter")
	ErrSessionNotReady  = errors.New("jbus: device not identified yet")
)
