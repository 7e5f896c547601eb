package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsPurple(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "#E7D7F6", cfg.SidebarBg)
	assert.Equal(t, "#A982D9", cfg.SidebarAccent)
	assert.Equal(t, "#A982D9", cfg.PrimaryColor)
	assert.Equal(t, "/images/admin.png", cfg.Logo)
	assert.NotZero(t, cfg.LastUpdated)
}

func TestFromPreset(t *testing.T) {
	blue := FromPreset("blue")
	assert.Equal(t, "#5B8DEE", blue.PrimaryColor)
	assert.Equal(t, "#DCE7F8", blue.SidebarBg)

	// Unknown names fall back to the default scheme.
	unknown := FromPreset("neon")
	assert.Equal(t, "#A982D9", unknown.PrimaryColor)
}

func TestPresetsComplete(t *testing.T) {
	for _, name := range []string{"purple", "blue", "green", "red", "orange", "indigo"} {
		p, ok := Presets[name]
		assert.True(t, ok, "missing preset %s", name)
		assert.NotEmpty(t, p.SidebarBg)
		assert.NotEmpty(t, p.PrimaryColor)
		assert.NotEmpty(t, p.Label)
		assert.Equal(t, hoverBg, p.ButtonHoverBg)
	}
}
