package jbus

import (
	"errors"

	"go.uber.org/zap"
)

// TestTransport is an in memory RegisterTransport with canned register
// windows, used by the package tests and by the mocked bridge mode.
type TestTransport struct {
	Reads     map[uint16][]uint16
	FailReads map[uint16]bool
	Writes    []WriteRecord

	// WriteAck overrides the acknowledged count, full success when nil
	WriteAck func(addr uint16, values []uint16) (uint16, error)
}

type WriteRecord struct {
	Addr   uint16
	Values []uint16
}

func (t *TestTransport) Open() error {
	return nil
}

func (t *TestTransport) Close() error {
	return nil
}

func (t *TestTransport) ReadRegisters(addr uint16, count uint16) ([]uint16, error) {
	if t.FailReads[addr] {
		return nil, errors.New("test transport: read refused")
	}
	regs := make([]uint16, count)
	copy(regs, t.Reads[addr])
	return regs, nil
}

func (t *TestTransport) WriteRegisters(addr uint16, values []uint16) (uint16, error) {
	t.Writes = append(t.Writes, WriteRecord{Addr: addr, Values: append([]uint16{}, values...)})
	if t.WriteAck != nil {
		return t.WriteAck(addr, values)
	}
	return uint16(len(values)), nil
}

// CreateTestTransport cans a healthy three phase DIGYS on line, battery full.
func CreateTestTransport() *TestTransport {
	identity := make([]uint16, identityLen)
	identity[0] = 130 // DIGYS
	identity[1] = 60  // 6 kVA
	// serial "SOC1234567"
	identity[3] = uint16('S') | uint16('O')<<8
	identity[4] = uint16('C') | uint16('1')<<8
	identity[5] = uint16('2') | uint16('3')<<8
	identity[6] = uint16('4') | uint16('5')<<8
	identity[7] = uint16('6') | uint16('7')<<8

	status := make([]uint16, 6)
	status[0] = 1<<0 | 1<<1 | 1<<2 | 1<<3 // supply, inverter, rectifier, load protected
	status[1] = 1<<0 | 1<<10 | 1<<11      // battery ok, bypass supply, charging
	status[2] = 1 << 0                    // unit operating
	status[4] = 1<<2 | 1<<6 | 1<<9 | 1<<12

	meas := make([]uint16, measurementLen)
	meas[0], meas[1], meas[2] = 31, 28, 35 // per line load
	meas[3] = 31                           // aggregate load
	meas[4] = 100                          // battery charge %
	meas[5] = 920                          // capacity, Ah * 10
	meas[6], meas[7], meas[8] = 230, 231, 229
	meas[9], meas[10], meas[11] = 230, 230, 231
	meas[15], meas[16], meas[17] = 8, 7, 9
	meas[18] = 500 // bypass frequency * 10
	meas[19] = 500 // output frequency * 10
	meas[20] = 816 // battery voltage * 10
	meas[22] = 24  // ambient temperature
	meas[23] = 540 // runtime seconds
	meas[24] = 0   // battery current * 10

	nominal := make([]uint16, nominalLen)
	nominal[0], nominal[1] = 230, 230
	nominal[2], nominal[3] = 50, 50
	nominal[8] = 920
	nominal[9] = 24

	clock := []uint16{0x1E0F, 0x0C09, 0x0800, 25} // 09:30:15, 2025/08/12

	return &TestTransport{
		Reads: map[uint16][]uint16{
			identityAddr:    identity,
			statusAddr:      status,
			alarmAddr:       make([]uint16, alarmLen),
			measurementAddr: meas,
			nominalAddr:     nominal,
			clockAddr:       clock,
		},
		FailReads: map[uint16]bool{},
	}
}

func CreateTestClient(params Params, logger *zap.Logger) *Client {
	return NewClient(CreateTestTransport(), params, logger)
}
