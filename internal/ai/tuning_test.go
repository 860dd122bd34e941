package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jg18/fs2open.github.com/internal/data"
)

func flatTable(v float64) data.SkillTable {
	return data.SkillTable{v, v, v, v, v}
}

func testProfile() *data.AIProfile {
	return &data.AIProfile{
		Name:                 "test",
		MaxAttackers:         data.SkillTable{1, 2, 3, 4, 5},
		TurnTimeScale:        flatTable(1),
		AfterburnerUseFactor: flatTable(4),
		GetAwayChance:        flatTable(0.4),
		SecondaryRangeMult:   flatTable(1),
		Flags:                data.ProfileSmartShieldManagement | data.ProfileNoDynamicTargetSwitch,
	}
}

func TestResolveTuning_ClassOverridesProfile(t *testing.T) {
	turn := flatTable(2)
	class := &data.AIClass{
		Name:          "Captain",
		Accuracy:      data.SkillTable{0.1, 0.2, 0.3, 0.4, 0.5},
		TurnTimeScale: &turn,
	}

	got := ResolveTuning(class, testProfile(), 3, 1)
	assert.Equal(t, "Captain", got.Class)
	assert.Equal(t, 3, got.Skill)
	assert.Equal(t, 0.4, got.Accuracy)
	assert.Equal(t, 4, got.MaxAttackers)
	assert.Equal(t, 2.0, got.TurnTimeScale)
	assert.Equal(t, 4, got.AfterburnerUseFactor)
	assert.True(t, got.SmartShields)
	assert.True(t, got.NoTargetSwitch)
	assert.False(t, got.HuntStealth)
	assert.False(t, got.FreeAfterburnerUse)
}

func TestResolveTuning_ClampsSkill(t *testing.T) {
	class := &data.AIClass{Name: "Lieutenant", Accuracy: data.SkillTable{0.1, 0.2, 0.3, 0.4, 0.5}}

	assert.Equal(t, 0.5, ResolveTuning(class, testProfile(), 9, 1).Accuracy)
	assert.Equal(t, 0.1, ResolveTuning(class, testProfile(), -1, 1).Accuracy)
}

func TestResolveTuning_Autoscale(t *testing.T) {
	tests := []struct {
		name        string
		index       int
		autoscale   bool
		wantAB      int
		wantGetAway float64
	}{
		{"lowest class", 0, true, 6, 0.6},
		{"middle class", 2, true, 4, 0.4},
		{"highest class", 4, true, 2, 0.2},
		{"disabled", 4, false, 4, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			autoscale := tt.autoscale
			class := &data.AIClass{Name: "c", Index: tt.index, Autoscale: &autoscale}
			got := ResolveTuning(class, testProfile(), 2, 5)
			assert.Equal(t, tt.wantAB, got.AfterburnerUseFactor)
			assert.InDelta(t, tt.wantGetAway, got.GetAwayChance, 1e-9)
		})
	}
}

func TestResolveTuning_ExplicitClassValueNotScaled(t *testing.T) {
	ab := flatTable(3)
	class := &data.AIClass{Name: "c", Index: 4, AfterburnerUseFactor: &ab}
	got := ResolveTuning(class, testProfile(), 2, 5)
	assert.Equal(t, 3, got.AfterburnerUseFactor)
}

func TestResolveTuning_ZeroValuesFloored(t *testing.T) {
	off := false
	class := &data.AIClass{Name: "c", Autoscale: &off}
	got := ResolveTuning(class, &data.AIProfile{}, 2, 1)
	assert.Equal(t, 1, got.AfterburnerUseFactor)
	assert.Equal(t, 1.0, got.TurnTimeScale)
	assert.Equal(t, 1.0, got.SecondaryRangeMult)
}
