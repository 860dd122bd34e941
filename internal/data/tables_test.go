package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
)

func TestLoadDefaultTables(t *testing.T) {
	tables, err := LoadDefaultTables()
	require.NoError(t, err)

	captain, err := tables.AIClass("captain")
	require.NoError(t, err)
	assert.Equal(t, "Captain", captain.Name)
	assert.InDelta(t, 0.6, captain.Accuracy.At(2), 1e-9)
	assert.Nil(t, captain.TurnTimeScale, "captain inherits turn time scale from the profile")
	assert.True(t, captain.AutoscaleEnabled())

	admiral, err := tables.AIClass("Admiral")
	require.NoError(t, err)
	require.NotNil(t, admiral.TurnTimeScale)
	assert.False(t, admiral.AutoscaleEnabled())

	profile, err := tables.Profile("default")
	require.NoError(t, err)
	assert.True(t, profile.Has(ProfileSmartShieldManagement))
	assert.False(t, profile.Has(ProfileFreeAfterburnerUse))
	assert.InDelta(t, 99, profile.MaxAttackers.At(4), 1e-9)
}

func TestLoadDefaultTables_ShipClasses(t *testing.T) {
	tables, err := LoadDefaultTables()
	require.NoError(t, err)

	fenris, err := tables.ShipClass("GTC Fenris")
	require.NoError(t, err)
	assert.True(t, fenris.IsBig())

	engine := fenris.FindSubsystem("engine")
	require.GreaterOrEqual(t, engine, 0)
	pathIdx := fenris.Subsystems[engine].Path
	require.GreaterOrEqual(t, pathIdx, 0)
	assert.Equal(t, engine, fenris.Paths[pathIdx].ParentSubsys)
	assert.Len(t, fenris.Paths[pathIdx].Verts, 3)

	require.Len(t, fenris.DockPoints, 1)
	assert.Equal(t, fenris.FindPath("dock approach"), fenris.DockPoints[0].Path)

	orion, err := tables.ShipClass("gtd orion")
	require.NoError(t, err)
	assert.True(t, orion.IsHuge())
	assert.Len(t, orion.BayPaths, 2)

	centaur, err := tables.ShipClass("GTS Centaur")
	require.NoError(t, err)
	assert.True(t, centaur.IsSupport())
	assert.Equal(t, model.DockRearm, centaur.DockPoints[0].Type)

	_, err = tables.ShipClass("GTX Nonexistent")
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestSkillTable_AtClamps(t *testing.T) {
	s := SkillTable{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, s.At(-3))
	assert.Equal(t, 3.0, s.At(2))
	assert.Equal(t, 5.0, s.At(12))
}

func TestPick(t *testing.T) {
	def := SkillTable{1, 1, 1, 1, 1}
	override := SkillTable{2, 2, 2, 2, 2}
	assert.Equal(t, 1.0, Pick(nil, def, 0))
	assert.Equal(t, 2.0, Pick(&override, def, 0))
}

func TestLoadTables_OverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ships.yaml")
	content := `
ship_classes:
  - name: Test Skiff
    flags: [fighter, no_afterburner]
    max_vel: [5, 5, 30]
    rot_time: [3, 3, 3]
    radius: 6
    max_hull: 50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tables, err := LoadTables("", "", path)
	require.NoError(t, err)

	skiff, err := tables.ShipClass("test skiff")
	require.NoError(t, err)
	assert.False(t, skiff.CanAfterburn())
	assert.Equal(t, []string{"Test Skiff"}, tables.ShipClassNames())
}

func TestLoadTables_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown flag", "ship_classes:\n  - {name: X, flags: [wobbly], radius: 1}"},
		{"unknown path", "ship_classes:\n  - name: X\n    radius: 1\n    subsystems:\n      - {name: e, type: engine, path: nowhere}"},
		{"zero radius", "ship_classes:\n  - {name: X}"},
		{"bad dock type", "ship_classes:\n  - name: X\n    radius: 1\n    dock_points:\n      - {name: d, type: teleport}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ships.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := LoadTables("", "", path)
			assert.Error(t, err)
		})
	}

	_, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml"), "", "")
	assert.Error(t, err)
}
