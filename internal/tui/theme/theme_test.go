package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("no-such-theme").Name)
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(All))
	assert.Equal(t, "flexoki-dark", names[0])
	assert.Contains(t, names, "gruvbox-dark")
}

func TestStatusColors(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Green, th.Status("Completed"))
	assert.Equal(t, th.Red, th.Status("Missed"))
	assert.Equal(t, th.Live, th.Status("In Progress"))
	assert.Equal(t, th.TextMuted, th.Status("Unknown"))

	// Unset outcome colors fall back to the signal colors.
	assert.Equal(t, Terminal.Blue, Terminal.Status("In Progress"))
	assert.Equal(t, GruvboxDark.Completed, GruvboxDark.Status("Completed"))
}

func TestRateColors(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Green, th.Rate(95))
	assert.Equal(t, th.Yellow, th.Rate(60))
	assert.Equal(t, th.Orange, th.Rate(45.5))
	assert.Equal(t, th.Red, th.Rate(0))
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	assert.Equal(t, "terminal", Active.Name)
}
