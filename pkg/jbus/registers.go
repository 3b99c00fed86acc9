package jbus

// JBUS register map, common to all supported Socomec families.
const (
	identityAddr    uint16 = 0x1000
	identityLen     uint16 = 12
	statusAddr      uint16 = 0x1020
	alarmAddr       uint16 = 0x1040
	alarmLen        uint16 = 4
	measurementAddr uint16 = 0x1060
	measurementLen  uint16 = 48
	nominalAddr     uint16 = 0x10E0
	nominalLen      uint16 = 32
	clockAddr       uint16 = 0x1360
	clockLen        uint16 = 4
	scheduleAddr    uint16 = 0x1580
	scheduleLen     uint16 = 5
	controlAddr     uint16 = 0x15B0
)

// Sentinel is the register value meaning "field not applicable on this device".
const Sentinel uint16 = 0xFFFF

// single-register control codes
const (
	codeStandbyEnable  uint16 = 0x05
	codeStandbyDisable uint16 = 0x06
	codeBuzzerEnable   uint16 = 0x07
	codeBuzzerMute     uint16 = 0x08
	codePanelTest      uint16 = 0x0D
	codeBuzzerDisable  uint16 = 0x0E
	codeBatteryTest    uint16 = 0x10
)

// Command vocabulary exposed to operators.
const (
	CommandLoadOn           = "load.on"
	CommandLoadOff          = "load.off"
	CommandLoadOffDelay     = "load.off.delay"
	CommandBeeperEnable     = "beeper.enable"
	CommandBeeperMute       = "beeper.mute"
	CommandBeeperDisable    = "beeper.disable"
	CommandTestPanelStart   = "test.panel.start"
	CommandTestBatteryStart = "test.battery.start"
	CommandShutdownReturn   = "shutdown.return"
	CommandShutdownStayOff  = "shutdown.stayoff"
)

var controlCodes = map[string]uint16{
	CommandLoadOff:          codeStandbyEnable,
	CommandLoadOn:           codeStandbyDisable,
	CommandBeeperEnable:     codeBuzzerEnable,
	CommandBeeperMute:       codeBuzzerMute,
	CommandTestPanelStart:   codePanelTest,
	CommandBeeperDisable:    codeBuzzerDisable,
	CommandTestBatteryStart: codeBatteryTest,
}

// Commands returns the full operator command vocabulary.
func Commands() []string {
	return []string{
		CommandLoadOn,
		CommandLoadOff,
		CommandLoadOffDelay,
		CommandBeeperEnable,
		CommandBeeperMute,
		CommandBeeperDisable,
		CommandTestPanelStart,
		CommandTestBatteryStart,
		CommandShutdownReturn,
		CommandShutdownStayOff,
	}
}
