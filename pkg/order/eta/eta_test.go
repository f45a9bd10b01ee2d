package eta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pizzaflow/pkg/order"
)

func TestEstimateKnownDistricts(t *testing.T) {
	e := New(DefaultConfig())

	assert.Equal(t, int64(19), e.Estimate("Asa Norte", order.Standard{}))
	assert.Equal(t, int64(95), e.Estimate("gama", order.Standard{}))
	assert.Equal(t, int64(61), e.Estimate("Águas Claras", order.Standard{}))
	assert.Equal(t, int64(61), e.Estimate("aguas   claras", nil))
}

func TestEstimateUnknownAddressUsesDefault(t *testing.T) {
	e := New(DefaultConfig())
	km, district, ok := e.Distance("Planaltina")
	assert.False(t, ok)
	assert.Empty(t, district)
	assert.Equal(t, 10, km)
	assert.Equal(t, int64(35), e.Estimate("Planaltina", order.Standard{}))
}

func TestEstimateSpecialAddsExtras(t *testing.T) {
	e := New(DefaultConfig())
	assert.Equal(t, int64(21), e.Estimate("asa norte", order.NewSpecial([]string{"bacon", "milho"})))
	assert.Equal(t, int64(19), e.Estimate("asa norte", order.NewSpecial(nil)))
}

func TestDistanceContainedDistrict(t *testing.T) {
	e := New(DefaultConfig())

	km, district, ok := e.Distance("SQN 210 Bloco C, Asa Norte")
	assert.True(t, ok)
	assert.Equal(t, "asa norte", district)
	assert.Equal(t, 2, km)

	km, district, _ = e.Distance("QI 5, Lago Sul")
	assert.Equal(t, "lago sul", district)
	assert.Equal(t, 12, km)
}

func TestDistanceToleratesTypos(t *testing.T) {
	e := New(DefaultConfig())

	km, district, ok := e.Distance("taguatnga")
	assert.True(t, ok)
	assert.Equal(t, "taguatinga", district)
	assert.Equal(t, 25, km)

	_, _, ok = e.Distance("taguatxxxx")
	assert.False(t, ok)

	km, district, ok = e.Distance("gamma")
	assert.True(t, ok)
	assert.Equal(t, "gama", district)
	assert.Equal(t, 40, km)
}

func TestDistanceRejectsLooseMatchOnShortNames(t *testing.T) {
	e := New(DefaultConfig())

	km, district, ok := e.Distance("casa")
	assert.False(t, ok)
	assert.Empty(t, district)
	assert.Equal(t, 10, km)
	assert.Equal(t, int64(35), e.Estimate("casa", order.Standard{}))
}

func TestCustomDistricts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Districts = map[string]int{"Centro": 1}
	cfg.PrepMinutes = 10
	e := New(cfg)
	assert.Equal(t, int64(12), e.Estimate("centro", order.Standard{}))
}
