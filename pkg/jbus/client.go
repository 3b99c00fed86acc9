package jbus

import (
	"fmt"
	"strings"
	"time"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

// RegisterTransport moves blocks of 16 bit registers to and from the device.
// WriteRegisters reports the number of registers the device acknowledged.
type RegisterTransport interface {
	Open() error
	Close() error
	ReadRegisters(addr uint16, count uint16) ([]uint16, error)
	WriteRegisters(addr uint16, values []uint16) (uint16, error)
}

// SerialConfig are the RTU line parameters.
type SerialConfig struct {
	Device   string
	BaudRate uint
	Parity   string
	DataBits uint
	StopBits uint
	SlaveId  uint8
	Timeout  time.Duration
}

type rtuTransport struct {
	client *modbus.ModbusClient
}

func (t rtuTransport) Open() error {
	return t.client.Open()
}

func (t rtuTransport) Close() error {
	return t.client.Close()
}

func (t rtuTransport) ReadRegisters(addr uint16, count uint16) ([]uint16, error) {
	return t.client.ReadRegisters(addr, count, modbus.HOLDING_REGISTER)
}

func (t rtuTransport) WriteRegisters(addr uint16, values []uint16) (uint16, error) {
	// the underlying client reports full success or an error, never a
	// partial count
	if err := t.client.WriteRegisters(addr, values); err != nil {
		return 0, err
	}
	return uint16(len(values)), nil
}

func parity(name string) (uint, error) {
	switch strings.ToUpper(name) {
	case "N", "NONE", "":
		return modbus.PARITY_NONE, nil
	case "E", "EVEN":
		return modbus.PARITY_EVEN, nil
	case "O", "ODD":
		return modbus.PARITY_ODD, nil
	default:
		return 0, fmt.Errorf("jbus: unknown parity %q", name)
	}
}

// CreateRTUTransport opens nothing yet, it only builds the transport for the
// given serial line.
func CreateRTUTransport(cfg SerialConfig) (RegisterTransport, error) {
	par, err := parity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:      fmt.Sprintf("rtu://%s", cfg.Device),
		Speed:    cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   par,
		StopBits: cfg.StopBits,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if cfg.SlaveId > 0 {
		if err := client.SetUnitId(cfg.SlaveId); err != nil {
			return nil, err
		}
	}
	return rtuTransport{client: client}, nil
}

// Client decodes one Socomec JBUS unit. It is not safe for concurrent use,
// the caller serializes poll cycles and commands.
type Client struct {
	transport RegisterTransport
	logger    *zap.Logger

	identity *DeviceIdentity
	nominal  *NominalConfig
	session  SessionState
	params   Params
}

func NewClient(transport RegisterTransport, params Params, logger *zap.Logger) *Client {
	return &Client{
		transport: transport,
		logger:    logger,
		params:    params,
	}
}

func CreateRTUClient(cfg SerialConfig, params Params, logger *zap.Logger) (*Client, error) {
	transport, err := CreateRTUTransport(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(transport, params, logger), nil
}

// Open connects the transport and identifies the unit. Identification must
// succeed once at boot or the session cannot proceed. The nominal
// configuration read is best effort.
func (c *Client) Open() error {
	if err := c.transport.Open(); err != nil {
		return err
	}

	regs, err := c.readBlock(identityAddr, identityLen)
	if err != nil {
		return err
	}
	id := decodeIdentity(regs)
	c.identity = &id
	c.logger.Info("device identified",
		zap.String("model", id.Model),
		zap.Uint16("code", id.Code))

	nregs, err := c.readBlock(nominalAddr, nominalLen)
	if err != nil || nregs[0] == 0 {
		c.logger.Warn("nominal configuration not available", zap.Error(err))
	} else {
		nom := decodeNominal(nregs)
		c.nominal = &nom
	}

	return nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) Identity() *DeviceIdentity {
	return c.identity
}

func (c *Client) Nominal() *NominalConfig {
	return c.nominal
}

func (c *Client) Params() Params {
	return c.params
}

// UpdateStatus runs one full poll cycle. A failed window read degrades to a
// zero filled buffer and the cycle continues, so the returned snapshot is
// always complete (possibly with "no information" content).
func (c *Client) UpdateStatus() (*StatusSnapshot, error) {
	if c.identity == nil {
		return nil, ErrSessionNotReady
	}

	snap := &StatusSnapshot{}

	regs := c.readBlockDegraded(statusAddr, c.identity.Family.StatusWindowLen())
	snap.Bits = decodeStatusBits(regs)
	snap.State = deriveState(snap.Bits, c.params.LowBatteryThreshold, &c.session)

	aregs := c.readBlockDegraded(alarmAddr, alarmLen)
	snap.Alarms = decodeAlarms(aregs)

	mregs := c.readBlockDegraded(measurementAddr, measurementLen)
	snap.Measurements = decodeMeasurements(mregs)

	if estimateLowBattery(&snap.Measurements, c.params.LowBatteryThreshold, &c.session) {
		snap.State.LowBattery = true
	}

	if cregs, err := c.readBlock(clockAddr, clockLen); err == nil {
		clock := decodeClock(cregs)
		snap.Clock = &clock
	} else {
		c.logger.Debug("device clock not available", zap.Error(err))
	}

	snap.Discharge = c.session.Discharge
	return snap, nil
}

// readBlock zero fills a buffer of the requested length, then issues one
// transport read into it. On failure the buffer stays zeroed so stale data
// can never leak into bit decoding.
func (c *Client) readBlock(addr uint16, count uint16) ([]uint16, error) {
	buf := make([]uint16, count)
	regs, err := c.transport.ReadRegisters(addr, count)
	if err != nil {
		return buf, &TransportError{Op: "read", Addr: addr, Count: count, Err: err}
	}
	copy(buf, regs)
	return buf, nil
}

func (c *Client) readBlockDegraded(addr uint16, count uint16) []uint16 {
	regs, err := c.readBlock(addr, count)
	if err != nil {
		c.logger.Warn("register read failed, continuing with zeroed window",
			zap.Uint16("addr", addr), zap.Error(err))
	}
	return regs
}

// writeBlock issues one transport write and checks the acknowledged count.
// A short acknowledgement is a transport failure, never a partial success.
func (c *Client) writeBlock(addr uint16, values []uint16) error {
	count := uint16(len(values))
	n, err := c.transport.WriteRegisters(addr, values)
	if err != nil {
		return &TransportError{Op: "write", Addr: addr, Count: count, Err: err}
	}
	if n != count {
		return &TransportError{Op: "write", Addr: addr, Count: count,
			Err: fmt.Errorf("device acknowledged %d of %d registers", n, count)}
	}
	return nil
}
