package jbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKnownFamilies(t *testing.T) {

	regs := make([]uint16, identityLen)

	regs[0] = 130
	id := decodeIdentity(regs)
	assert.Equal(t, FamilyDIGYS, id.Family)
	assert.Equal(t, "DIGYS", id.Model)
	assert.Equal(t, uint16(4), FamilyITYS.StatusWindowLen())
	assert.Equal(t, uint16(6), id.Family.StatusWindowLen())

	regs[0] = 30
	assert.Equal(t, FamilyITYS, decodeIdentity(regs).Family)
	regs[0] = 515
	assert.Equal(t, FamilyDelphysMX, decodeIdentity(regs).Family)
	regs[0] = 516
	assert.Equal(t, FamilyDelphysMXElite, decodeIdentity(regs).Family)
}

func TestIdentityUnknownCode(t *testing.T) {

	regs := make([]uint16, identityLen)
	regs[0] = 9999

	id := decodeIdentity(regs)
	assert.Equal(t, FamilyUnknown, id.Family)
	// the raw code must be reported so an operator can classify the unit
	assert.Contains(t, id.Model, "9999")
	assert.Equal(t, uint16(6), id.Family.StatusWindowLen())
}

func TestIdentityPowerRating(t *testing.T) {

	regs := make([]uint16, identityLen)
	regs[0] = 130
	regs[1] = 60

	assert.Equal(t, uint32(6000), decodeIdentity(regs).PowerRatingVA)

	regs[1] = 0
	assert.Zero(t, decodeIdentity(regs).PowerRatingVA)
}

func TestIdentitySerial(t *testing.T) {

	regs := make([]uint16, identityLen)
	regs[0] = 130
	regs[3] = uint16('A') | uint16('B')<<8
	regs[4] = uint16('C') | uint16('D')<<8
	regs[5] = uint16('E') | uint16('F')<<8
	regs[6] = uint16('G') | uint16('H')<<8
	regs[7] = uint16('I') | uint16('J')<<8

	assert.Equal(t, "ABCDEFGHIJ", decodeIdentity(regs).Serial)

	// any zero register means the serial is not populated
	regs[5] = 0
	assert.Empty(t, decodeIdentity(regs).Serial)
}
