package jbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientOpenIdentifies(t *testing.T) {

	client := CreateTestClient(DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())

	id := client.Identity()
	require.NotNil(t, id)
	assert.Equal(t, FamilyDIGYS, id.Family)
	assert.Equal(t, "DIGYS", id.Model)
	assert.Equal(t, uint32(6000), id.PowerRatingVA)
	assert.Equal(t, "SOC1234567", id.Serial)

	nom := client.Nominal()
	require.NotNil(t, nom)
	assert.Equal(t, uint16(230), nom.InputVoltage)
	assert.Equal(t, 92.0, nom.BatteryCapacityAh)
}

func TestClientOpenFailsWithoutIdentity(t *testing.T) {

	transport := CreateTestTransport()
	transport.FailReads[identityAddr] = true
	client := NewClient(transport, DefaultParams(), zap.NewNop())

	// identification is the one fatal read
	assert.Error(t, client.Open())
	assert.Nil(t, client.Identity())

	_, err := client.UpdateStatus()
	assert.ErrorIs(t, err, ErrSessionNotReady)
}

func TestClientUpdateStatus(t *testing.T) {

	client := CreateTestClient(DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())

	snap, err := client.UpdateStatus()
	require.NoError(t, err)

	assert.True(t, snap.State.OnLine)
	assert.False(t, snap.State.OnBattery)
	assert.Equal(t, []string{"OL"}, snap.State.Tokens())
	assert.Equal(t, ChargingOrIdle, snap.Discharge)
	assert.True(t, snap.Bits.BatteryCharging)
	assert.Empty(t, snap.Alarms)

	assert.False(t, snap.Measurements.SinglePhase)
	assert.Equal(t, uint16(31), snap.Measurements.LoadPercent)
	require.NotNil(t, snap.Measurements.BatteryCharge)
	assert.Equal(t, uint16(100), *snap.Measurements.BatteryCharge)

	require.NotNil(t, snap.Clock)
	assert.Equal(t, "09:30:15", snap.Clock.Time)
	assert.Equal(t, "2025/08/12", snap.Clock.Date)
}

func TestClientDegradedCycle(t *testing.T) {

	transport := CreateTestTransport()
	client := NewClient(transport, DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())

	// put the unit on battery first so the discharge flag is primed
	status := transport.Reads[statusAddr]
	status[0] = 1<<1 | 1<<5
	snap, err := client.UpdateStatus()
	require.NoError(t, err)
	assert.Equal(t, Discharging, snap.Discharge)

	// every per cycle window fails: the cycle still completes with zeroed
	// windows and the discharge flag carries over
	transport.FailReads[statusAddr] = true
	transport.FailReads[alarmAddr] = true
	transport.FailReads[measurementAddr] = true
	transport.FailReads[clockAddr] = true

	snap, err = client.UpdateStatus()
	require.NoError(t, err)
	assert.False(t, snap.State.OnLine)
	assert.False(t, snap.State.OnBattery)
	assert.Empty(t, snap.Alarms)
	assert.Nil(t, snap.Clock)
	assert.Equal(t, Discharging, snap.Discharge)
}

func TestClientLowBatteryEstimate(t *testing.T) {

	transport := CreateTestTransport()
	client := NewClient(transport, DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())

	// on battery with 15% charge against the default 20% threshold
	transport.Reads[statusAddr][0] = 1<<1 | 1<<5
	transport.Reads[measurementAddr][4] = 15

	snap, err := client.UpdateStatus()
	require.NoError(t, err)
	assert.True(t, snap.State.OnBattery)
	assert.True(t, snap.State.LowBattery)
	assert.Equal(t, []string{"OB", "LB"}, snap.State.Tokens())
}
