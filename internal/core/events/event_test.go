package events

import (
	"testing"

	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/pkg/jbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func eventIds(evs []any) map[string]int {
	ids := map[string]int{}
	for _, ev := range evs {
		if e, ok := ev.(domain.SensorUpdateEvent); ok {
			ids[e.SensorId()]++
		}
	}
	return ids
}

func TestThreePhaseStatusEvents(t *testing.T) {

	client := jbus.CreateTestClient(jbus.DefaultParams(), zap.NewNop())
	require.NoError(t, client.Open())
	snap, err := client.UpdateStatus()
	require.NoError(t, err)

	ids := eventIds(StatusToUpdateEvents(snap))

	// a three phase unit has no aggregate voltage, only per line readings
	assert.NotContains(t, ids, SENSOR_ID_BYPASS_VOLTAGE)
	assert.NotContains(t, ids, SENSOR_ID_OUTPUT_VOLTAGE)
	assert.Contains(t, ids, SENSOR_ID_BYPASS_VOLTAGE+"_l1")
	assert.Contains(t, ids, SENSOR_ID_OUTPUT_VOLTAGE+"_l3")

	// the aggregate load is reported on both unit kinds
	assert.Contains(t, ids, SENSOR_ID_UPS_LOAD)
	assert.Contains(t, ids, SENSOR_ID_UPS_STATUS)
}

func TestSinglePhaseStatusEvents(t *testing.T) {

	snap := &jbus.StatusSnapshot{
		Measurements: jbus.Measurements{
			SinglePhase:   true,
			LoadPercent:   31,
			BypassVoltage: 230,
			OutputVoltage: 229,
		},
	}

	ids := eventIds(StatusToUpdateEvents(snap))

	assert.Contains(t, ids, SENSOR_ID_BYPASS_VOLTAGE)
	assert.Contains(t, ids, SENSOR_ID_OUTPUT_VOLTAGE)
	assert.NotContains(t, ids, SENSOR_ID_BYPASS_VOLTAGE+"_l1")
	assert.NotContains(t, ids, SENSOR_ID_OUTPUT_VOLTAGE+"_l1")
}
