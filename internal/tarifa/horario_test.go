package tarifa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHora(t *testing.T) {
	m, err := ParseHora("19:30")
	require.NoError(t, err)
	assert.Equal(t, 19*60+30, m)

	for _, bad := range []string{"", "7:00", "24:00", "19-00", "19:60", "ab:cd"} {
		_, err := ParseHora(bad)
		assert.Error(t, err, bad)
	}
}

func TestEnHorarioNocturno(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 1, 2, h, m, 0, 0, time.UTC) }

	assert.True(t, EnHorarioNocturno(at(19, 0), "19:00", "07:00"))
	assert.True(t, EnHorarioNocturno(at(23, 59), "19:00", "07:00"))
	assert.True(t, EnHorarioNocturno(at(3, 0), "19:00", "07:00"))
	assert.False(t, EnHorarioNocturno(at(7, 0), "19:00", "07:00"))
	assert.False(t, EnHorarioNocturno(at(12, 0), "19:00", "07:00"))

	assert.True(t, EnHorarioNocturno(at(1, 0), "00:00", "06:00"))
	assert.False(t, EnHorarioNocturno(at(6, 30), "00:00", "06:00"))

	assert.False(t, EnHorarioNocturno(at(20, 0), "bad", "07:00"))
}
