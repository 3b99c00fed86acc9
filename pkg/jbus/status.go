package jbus

// StatusBits are the raw boolean conditions of the status window. Every bit
// position has a fixed, independent meaning; none of them exclude another.
type StatusBits struct {
	SupplyPresent          bool
	InverterOn             bool
	RectifierOn            bool
	LoadProtected          bool
	OnAutoBypass           bool
	OnBattery              bool
	RemoteControlsDisabled bool
	EcoMode                bool
	BatteryTestRunning     bool
	BatteryTestFailed      bool
	NearEndOfBackup        bool

	BatteryOK            bool
	BypassSupplyPresent  bool
	BatteryCharging      bool
	BypassFreqOutOfRange bool

	UnitOperating   bool
	MaintenanceMode bool

	// extended window, 6 register families only
	BoostCharge             bool
	InverterSwitchClosed    bool
	BypassBreakerClosed     bool
	MaintenanceBypassClosed bool
	RemoteMaintBypassClosed bool
	OutputBreakerClosed     bool
	UnitWorking             bool
	NormalMode              bool
}

func bit(reg uint16, pos uint) bool {
	return reg&(1<<pos) != 0
}

// decodeStatusBits evaluates every bit of the status window independently.
// A zero filled window (failed read) decodes to all false.
func decodeStatusBits(regs []uint16) StatusBits {
	bits := StatusBits{
		SupplyPresent:          bit(regs[0], 0),
		InverterOn:             bit(regs[0], 1),
		RectifierOn:            bit(regs[0], 2),
		LoadProtected:          bit(regs[0], 3),
		OnAutoBypass:           bit(regs[0], 4),
		OnBattery:              bit(regs[0], 5),
		RemoteControlsDisabled: bit(regs[0], 6),
		EcoMode:                bit(regs[0], 7),
		BatteryTestRunning:     bit(regs[0], 10),
		BatteryTestFailed:      bit(regs[0], 14),
		NearEndOfBackup:        bit(regs[0], 15),

		BatteryOK:            bit(regs[1], 0),
		BypassSupplyPresent:  bit(regs[1], 10),
		BatteryCharging:      bit(regs[1], 11),
		BypassFreqOutOfRange: bit(regs[1], 12),

		UnitOperating:   bit(regs[2], 0),
		MaintenanceMode: bit(regs[3], 0),
	}

	if len(regs) >= 6 {
		bits.BoostCharge = bit(regs[4], 0)
		bits.InverterSwitchClosed = bit(regs[4], 2)
		bits.BypassBreakerClosed = bit(regs[4], 3)
		bits.MaintenanceBypassClosed = bit(regs[4], 4)
		bits.RemoteMaintBypassClosed = bit(regs[4], 5)
		bits.OutputBreakerClosed = bit(regs[4], 6)
		bits.UnitWorking = bit(regs[4], 9)
		bits.NormalMode = bit(regs[4], 12)
	}

	return bits
}

// deriveState applies the precedence rules to the raw bits, updating the
// session discharge flag as a side effect. The facts are not collapsed: more
// than one can hold at once (the unit reports both OL and OB while switching
// back to mains, and OFF can coexist with OL).
func deriveState(bits StatusBits, threshold int, session *SessionState) OperatingState {
	var state OperatingState

	if bits.SupplyPresent && !bits.OnBattery {
		state.OnLine = true
		session.Discharge = ChargingOrIdle
	}

	if !bits.InverterOn {
		state.Off = true
	}

	// a running battery self test reports OnBattery without a real outage
	if bits.BatteryTestRunning && bits.OnBattery {
		state.OnLine = true
	} else if bits.OnBattery {
		state.OnBattery = true
		session.Discharge = Discharging
	}

	if bits.NearEndOfBackup && threshold == ThresholdDeviceBit {
		state.LowBattery = true
	}

	return state
}

// estimateLowBattery is the charge threshold path. It is independent of the
// device bit path in deriveState and both may assert low battery in the same
// cycle.
func estimateLowBattery(m *Measurements, threshold int, session *SessionState) bool {
	if threshold <= 0 {
		return false
	}
	if session.Discharge != Discharging {
		return false
	}
	return m.BatteryCharge != nil && int(*m.BatteryCharge) < threshold
}

type Alarm string

const (
	AlarmGeneral            Alarm = "General alarm present"
	AlarmBatteryFailure     Alarm = "Battery failure"
	AlarmOverload           Alarm = "Overload fault"
	AlarmControlFailure     Alarm = "Control failure (com, internal supply)"
	AlarmRectifierSupply    Alarm = "Rectifier input supply out of tolerance"
	AlarmBypassSupply       Alarm = "Bypass input supply out of tolerance"
	AlarmOverTemperature    Alarm = "Over temperature fault"
	AlarmMaintBypassClosed  Alarm = "Maintenance bypass closed"
	AlarmChargerFault       Alarm = "Battery charger fault"
	AlarmImproperCondition  Alarm = "Improper condition of use"
	AlarmInverterStopped    Alarm = "Inverter stopped for overload"
	AlarmRectifierSupplyFlt Alarm = "Rectifier input supply fault"
	AlarmBypassPreventive   Alarm = "Bypass preventive alarm"
	AlarmImminentStop       Alarm = "Imminent stop"
	AlarmServicing          Alarm = "Servicing alarm"
	AlarmMaintBypass        Alarm = "Maintenance bypass"
	AlarmBatteryDischarged  Alarm = "Battery discharged"
	AlarmRectifierCritical  Alarm = "Critical rectifier fault"
	AlarmInverterCritical   Alarm = "Critical inverter fault"
	AlarmBatteryCircuitOpen Alarm = "Battery circuit open"
	AlarmBypassCritical     Alarm = "Bypass critical alarm"
)

var alarmTable = []struct {
	reg   int
	pos   uint
	alarm Alarm
}{
	{0, 0, AlarmGeneral},
	{0, 1, AlarmBatteryFailure},
	{0, 2, AlarmOverload},
	{0, 4, AlarmControlFailure},
	{0, 5, AlarmRectifierSupply},
	{0, 6, AlarmBypassSupply},
	{0, 7, AlarmOverTemperature},
	{0, 8, AlarmMaintBypassClosed},
	{0, 10, AlarmChargerFault},
	{1, 1, AlarmImproperCondition},
	{1, 2, AlarmInverterStopped},
	{1, 6, AlarmRectifierSupplyFlt},
	{1, 13, AlarmBypassPreventive},
	{1, 15, AlarmImminentStop},
	{2, 12, AlarmServicing},
	{3, 0, AlarmMaintBypass},
	{3, 1, AlarmBatteryDischarged},
	{3, 4, AlarmRectifierCritical},
	{3, 6, AlarmInverterCritical},
	{3, 11, AlarmBatteryCircuitOpen},
	{3, 14, AlarmBypassCritical},
}

// decodeAlarms collects every active alarm of the cycle. The returned slice
// replaces the previously published set wholesale.
func decodeAlarms(regs []uint16) []Alarm {
	var active []Alarm
	for _, e := range alarmTable {
		if bit(regs[e.reg], e.pos) {
			active = append(active, e.alarm)
		}
	}
	return active
}
