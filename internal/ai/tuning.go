package ai

import (
	"github.com/jg18/fs2open.github.com/internal/data"
)

// Tuning is the per-ship behaviour table, resolved once at registration from
// AI class × skill tier × AI profile. Percent fields are 0..100, chance fields 0..1,
// times in seconds.
type Tuning struct {
	Class string
	Skill int

	Accuracy float64 // 0..1, fraction of lead applied when aiming
	Evasion  float64 // percent
	Courage  float64 // percent
	Patience float64 // percent

	MaxAttackers int

	CmeasureFireChance          float64
	InRangeTime                 float64
	LinkAmmoLevelsMaybe         float64
	LinkAmmoLevelsAlways        float64
	PrimaryAmmoBurstMult        float64
	LinkEnergyLevelsMaybe       float64
	LinkEnergyLevelsAlways      float64
	PredictPositionDelay        float64
	ShieldManageDelay           float64
	FireDelayScaleFriendly      float64
	FireDelayScaleHostile       float64
	SecondaryDelayScaleFriendly float64
	SecondaryDelayScaleHostile  float64
	TurnTimeScale               float64
	GlideAttackPercent          float64
	CircleStrafePercent         float64
	GlideStrafePercent          float64
	RandomSidethrustPercent     float64
	StalemateTimeThresh         float64
	StalemateDistThresh         float64
	MissileOnPlayerChance       float64
	MaxAimUpdateDelay           float64
	TurretMaxAimUpdateDelay     float64
	AfterburnerUseFactor        int
	ShockwaveEvadeChance        float64
	GetAwayChance               float64
	SecondaryRangeMult          float64

	Autoscale          bool
	FreeAfterburnerUse bool
	SmartShields       bool
	HuntStealth        bool
	NoTargetSwitch     bool
}

// DefaultTuning is a medium-skill tuning used when no tables are available.
func DefaultTuning() Tuning {
	return Tuning{
		Class:                       "default",
		Skill:                       2,
		Accuracy:                    0.6,
		Evasion:                     60,
		Courage:                     60,
		Patience:                    60,
		MaxAttackers:                4,
		CmeasureFireChance:          0.5,
		InRangeTime:                 0.75,
		LinkAmmoLevelsMaybe:         60,
		LinkAmmoLevelsAlways:        85,
		LinkEnergyLevelsMaybe:       40,
		LinkEnergyLevelsAlways:      60,
		PredictPositionDelay:        1.333,
		ShieldManageDelay:           2.5,
		FireDelayScaleFriendly:      1.25,
		FireDelayScaleHostile:       1.1,
		SecondaryDelayScaleFriendly: 0.8,
		SecondaryDelayScaleHostile:  1.0,
		TurnTimeScale:               1.6,
		StalemateTimeThresh:         8,
		StalemateDistThresh:         200,
		MissileOnPlayerChance:       20,
		AfterburnerUseFactor:        4,
		ShockwaveEvadeChance:        0.6,
		GetAwayChance:               0.3,
		SecondaryRangeMult:          1,
		Autoscale:                   true,
		SmartShields:                true,
	}
}

// ResolveTuning folds an AI class and profile into a flat table for one skill tier.
// classCount is the number of classes in the table and drives autoscaling of the
// afterburner and get-away values when the class does not set them itself.
func ResolveTuning(class *data.AIClass, profile *data.AIProfile, skill, classCount int) Tuning {
	if skill < 0 {
		skill = 0
	}
	if skill >= data.SkillLevels {
		skill = data.SkillLevels - 1
	}

	t := Tuning{
		Class:    class.Name,
		Skill:    skill,
		Accuracy: class.Accuracy.At(skill),
		Evasion:  class.Evasion.At(skill),
		Courage:  class.Courage.At(skill),
		Patience: class.Patience.At(skill),

		MaxAttackers: int(profile.MaxAttackers.At(skill)),

		CmeasureFireChance:          data.Pick(class.CmeasureFireChance, profile.CmeasureFireChance, skill),
		InRangeTime:                 data.Pick(class.InRangeTime, profile.InRangeTime, skill),
		LinkAmmoLevelsMaybe:         data.Pick(class.LinkAmmoLevelsMaybe, profile.LinkAmmoLevelsMaybe, skill),
		LinkAmmoLevelsAlways:        data.Pick(class.LinkAmmoLevelsAlways, profile.LinkAmmoLevelsAlways, skill),
		PrimaryAmmoBurstMult:        data.Pick(class.PrimaryAmmoBurstMult, profile.PrimaryAmmoBurstMult, skill),
		LinkEnergyLevelsMaybe:       data.Pick(class.LinkEnergyLevelsMaybe, profile.LinkEnergyLevelsMaybe, skill),
		LinkEnergyLevelsAlways:      data.Pick(class.LinkEnergyLevelsAlways, profile.LinkEnergyLevelsAlways, skill),
		PredictPositionDelay:        data.Pick(class.PredictPositionDelay, profile.PredictPositionDelay, skill),
		ShieldManageDelay:           data.Pick(class.ShieldManageDelay, profile.ShieldManageDelay, skill),
		FireDelayScaleFriendly:      data.Pick(class.FireDelayScaleFriendly, profile.FireDelayScaleFriendly, skill),
		FireDelayScaleHostile:       data.Pick(class.FireDelayScaleHostile, profile.FireDelayScaleHostile, skill),
		SecondaryDelayScaleFriendly: data.Pick(class.SecondaryDelayScaleFriendly, profile.SecondaryDelayScaleFriendly, skill),
		SecondaryDelayScaleHostile:  data.Pick(class.SecondaryDelayScaleHostile, profile.SecondaryDelayScaleHostile, skill),
		TurnTimeScale:               data.Pick(class.TurnTimeScale, profile.TurnTimeScale, skill),
		GlideAttackPercent:          data.Pick(class.GlideAttackPercent, profile.GlideAttackPercent, skill),
		CircleStrafePercent:         data.Pick(class.CircleStrafePercent, profile.CircleStrafePercent, skill),
		GlideStrafePercent:          data.Pick(class.GlideStrafePercent, profile.GlideStrafePercent, skill),
		RandomSidethrustPercent:     data.Pick(class.RandomSidethrustPercent, profile.RandomSidethrustPercent, skill),
		StalemateTimeThresh:         data.Pick(class.StalemateTimeThresh, profile.StalemateTimeThresh, skill),
		StalemateDistThresh:         data.Pick(class.StalemateDistThresh, profile.StalemateDistThresh, skill),
		MissileOnPlayerChance:       data.Pick(class.MissileOnPlayerChance, profile.MissileOnPlayerChance, skill),
		MaxAimUpdateDelay:           data.Pick(class.MaxAimUpdateDelay, profile.MaxAimUpdateDelay, skill),
		TurretMaxAimUpdateDelay:     data.Pick(class.TurretMaxAimUpdateDelay, profile.TurretMaxAimUpdateDelay, skill),
		AfterburnerUseFactor:        int(data.Pick(class.AfterburnerUseFactor, profile.AfterburnerUseFactor, skill)),
		ShockwaveEvadeChance:        data.Pick(class.ShockwaveEvadeChance, profile.ShockwaveEvadeChance, skill),
		GetAwayChance:               data.Pick(class.GetAwayChance, profile.GetAwayChance, skill),
		SecondaryRangeMult:          data.Pick(class.SecondaryRangeMult, profile.SecondaryRangeMult, skill),

		Autoscale:          class.AutoscaleEnabled(),
		FreeAfterburnerUse: profile.Has(data.ProfileFreeAfterburnerUse),
		SmartShields:       profile.Has(data.ProfileSmartShieldManagement),
		HuntStealth:        profile.Has(data.ProfileHuntStealthWithoutLOS),
		NoTargetSwitch:     profile.Has(data.ProfileNoDynamicTargetSwitch),
	}

	// Autoscaling shifts the effective tier by the class position in the table:
	// higher classes burn more readily and bail out less.
	if t.Autoscale && classCount > 1 {
		shift := float64(class.Index) / float64(classCount-1) // 0..1
		if class.AfterburnerUseFactor == nil {
			t.AfterburnerUseFactor = max(1, int(float64(t.AfterburnerUseFactor)*(1.5-shift)))
		}
		if class.GetAwayChance == nil {
			t.GetAwayChance *= 1.5 - shift
		}
	}

	if t.AfterburnerUseFactor < 1 {
		t.AfterburnerUseFactor = 1
	}
	if t.TurnTimeScale <= 0 {
		t.TurnTimeScale = 1
	}
	if t.SecondaryRangeMult <= 0 {
		t.SecondaryRangeMult = 1
	}
	return t
}
