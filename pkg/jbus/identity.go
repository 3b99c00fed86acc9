package jbus

import (
	"fmt"
)

// decodeIdentity interprets the 12 register identity block.
func decodeIdentity(regs []uint16) DeviceIdentity {
	id := DeviceIdentity{
		Code:   regs[0],
		Family: familyCodes[regs[0]],
	}

	if id.Family != FamilyUnknown {
		id.Model = id.Family.String()
	} else {
		// report the raw code so an operator can classify the unit
		id.Model = fmt.Sprintf("Unknown Socomec JBUS (code %d)", id.Code)
	}

	// register 1 is the power rating in tenths of kVA
	if regs[1] != 0 {
		id.PowerRatingVA = uint32(regs[1]) * 100
	}

	// registers 3..7 pack a 10 char ASCII serial, low byte first. A zero
	// register means the field is not populated on this unit.
	if regs[3] != 0 && regs[4] != 0 && regs[5] != 0 && regs[6] != 0 && regs[7] != 0 {
		b := make([]byte, 0, 10)
		for _, r := range regs[3:8] {
			b = append(b, byte(r&0xFF), byte(r>>8))
		}
		id.Serial = string(b)
	}

	return id
}
