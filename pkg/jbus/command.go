package jbus

import (
	"fmt"

	"go.uber.org/zap"
)

// Command executes one operator command by name. Simple commands are a single
// register write to the control address; shutdown class commands encode the
// current schedule. A failed write is reported, never fatal.
func (c *Client) Command(name string) error {
	switch name {
	case CommandLoadOffDelay, CommandShutdownReturn:
		return c.writeSchedule(c.params.Schedule())
	case CommandShutdownStayOff:
		// stay off means no scheduled restart
		sched := c.params.Schedule()
		sched.ScheduleType = 0
		return c.writeSchedule(sched)
	}

	code, ok := controlCodes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	c.logger.Info("control command", zap.String("command", name))
	return c.writeBlock(controlAddr, []uint16{code})
}

// Shutdown is the immediate entry point used when the surrounding process is
// going down: program the schedule now so the device powers off after the
// configured delay and comes back per the schedule type.
func (c *Client) Shutdown() error {
	c.logger.Info("programming device shutdown",
		zap.Uint16("delay_seconds", c.params.ShutdownDelaySeconds),
		zap.Uint16("standby_minutes", c.params.StandbyMinutes))
	return c.writeSchedule(c.params.Schedule())
}

func (c *Client) writeSchedule(sched ShutdownSchedule) error {
	return c.writeBlock(scheduleAddr, encodeSchedule(sched))
}

// encodeSchedule splits delay and stand by time big endian into one byte per
// register, the schedule type goes last.
func encodeSchedule(s ShutdownSchedule) []uint16 {
	return []uint16{
		s.DelaySeconds >> 8,
		s.DelaySeconds & 0xFF,
		s.StandbyMinutes >> 8,
		s.StandbyMinutes & 0xFF,
		s.ScheduleType,
	}
}

// SetParam dispatches a named parameter update. Stay off durations arrive in
// seconds, the other values in their natural unit.
func (c *Client) SetParam(name string, value int) error {
	return c.params.Set(name, value)
}

func (c *Client) SetLowBatteryThreshold(percent int) error {
	return c.params.SetLowBatteryThreshold(percent)
}

func (c *Client) SetShutdownDelay(seconds int) error {
	return c.params.SetShutdownDelay(seconds)
}

func (c *Client) SetStandbyDuration(seconds int) error {
	return c.params.SetStandbyDuration(seconds)
}

func (c *Client) SetScheduleType(t int) error {
	return c.params.SetScheduleType(t)
}

// Set dispatches a named parameter update. The same validation applies no
// matter where the value comes from (MQTT, HTTP or the boot configuration).
func (p *Params) Set(name string, value int) error {
	switch name {
	case ParamLowBatteryThreshold:
		return p.SetLowBatteryThreshold(value)
	case ParamShutdownDelay:
		return p.SetShutdownDelay(value)
	case ParamStandbyDuration:
		return p.SetStandbyDuration(value)
	case ParamScheduleType:
		return p.SetScheduleType(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}
}

// SetLowBatteryThreshold accepts a charge percent between 10 and 100, or the
// 0 / -1 sentinels that disable the estimate or defer to the device bit.
func (p *Params) SetLowBatteryThreshold(percent int) error {
	if percent != ThresholdDisabled && percent != ThresholdDeviceBit &&
		(percent < 10 || percent > 100) {
		return &ValidationError{Param: ParamLowBatteryThreshold, Value: percent,
			Reason: "must be 10-100, 0 to disable or -1 for the device bit"}
	}
	p.LowBatteryThreshold = percent
	return nil
}

func (p *Params) SetShutdownDelay(seconds int) error {
	if seconds < 20 || seconds > 600 {
		return &ValidationError{Param: ParamShutdownDelay, Value: seconds,
			Reason: "must be 20-600 seconds"}
	}
	p.ShutdownDelaySeconds = uint16(seconds)
	return nil
}

// SetStandbyDuration takes seconds but the device schedules whole minutes, so
// anything not divisible by 60 is rejected untouched.
func (p *Params) SetStandbyDuration(seconds int) error {
	if seconds%60 != 0 {
		return &ValidationError{Param: ParamStandbyDuration, Value: seconds,
			Reason: "must be a whole number of minutes"}
	}
	minutes := seconds / 60
	if minutes < 1 || minutes > 9999 {
		return &ValidationError{Param: ParamStandbyDuration, Value: seconds,
			Reason: "must be 1-9999 minutes"}
	}
	p.StandbyMinutes = uint16(minutes)
	return nil
}

func (p *Params) SetScheduleType(t int) error {
	if t != 0 && t != 1 && t != 4 {
		return &ValidationError{Param: ParamScheduleType, Value: t,
			Reason: "must be 0, 1 or 4"}
	}
	p.ScheduleType = uint16(t)
	return nil
}
