package data

import (
	"fmt"
	"strings"
)

// SkillLevels is the number of difficulty tiers.
const SkillLevels = 5

// SkillTable holds one value per skill tier, easiest first.
type SkillTable [SkillLevels]float64

// At returns the value for a tier, clamping the index.
func (s SkillTable) At(skill int) float64 {
	if skill < 0 {
		skill = 0
	}
	if skill >= SkillLevels {
		skill = SkillLevels - 1
	}
	return s[skill]
}

// AIClass is one entry of the AI class table. Pointer fields are optional overrides;
// nil means "inherit from the AI profile".
type AIClass struct {
	Name  string `yaml:"name"`
	Index int    `yaml:"-"`

	Accuracy SkillTable `yaml:"accuracy"`
	Evasion  SkillTable `yaml:"evasion"`
	Courage  SkillTable `yaml:"courage"`
	Patience SkillTable `yaml:"patience"`

	CmeasureFireChance          *SkillTable `yaml:"cmeasure_fire_chance"`
	InRangeTime                 *SkillTable `yaml:"in_range_time"`
	LinkAmmoLevelsMaybe         *SkillTable `yaml:"link_ammo_levels_maybe"`
	LinkAmmoLevelsAlways        *SkillTable `yaml:"link_ammo_levels_always"`
	PrimaryAmmoBurstMult        *SkillTable `yaml:"primary_ammo_burst_mult"`
	LinkEnergyLevelsMaybe       *SkillTable `yaml:"link_energy_levels_maybe"`
	LinkEnergyLevelsAlways      *SkillTable `yaml:"link_energy_levels_always"`
	PredictPositionDelay        *SkillTable `yaml:"predict_position_delay"`
	ShieldManageDelay           *SkillTable `yaml:"shield_manage_delay"`
	FireDelayScaleFriendly      *SkillTable `yaml:"fire_delay_scale_friendly"`
	FireDelayScaleHostile       *SkillTable `yaml:"fire_delay_scale_hostile"`
	SecondaryDelayScaleFriendly *SkillTable `yaml:"secondary_delay_scale_friendly"`
	SecondaryDelayScaleHostile  *SkillTable `yaml:"secondary_delay_scale_hostile"`
	TurnTimeScale               *SkillTable `yaml:"turn_time_scale"`
	GlideAttackPercent          *SkillTable `yaml:"glide_attack_percent"`
	CircleStrafePercent         *SkillTable `yaml:"circle_strafe_percent"`
	GlideStrafePercent          *SkillTable `yaml:"glide_strafe_percent"`
	RandomSidethrustPercent     *SkillTable `yaml:"random_sidethrust_percent"`
	StalemateTimeThresh         *SkillTable `yaml:"stalemate_time_thresh"`
	StalemateDistThresh         *SkillTable `yaml:"stalemate_dist_thresh"`
	MissileOnPlayerChance       *SkillTable `yaml:"missile_on_player_chance"`
	MaxAimUpdateDelay           *SkillTable `yaml:"max_aim_update_delay"`
	TurretMaxAimUpdateDelay     *SkillTable `yaml:"turret_max_aim_update_delay"`
	AfterburnerUseFactor        *SkillTable `yaml:"afterburner_use_factor"`
	ShockwaveEvadeChance        *SkillTable `yaml:"shockwave_evade_chance"`
	GetAwayChance               *SkillTable `yaml:"get_away_chance"`
	SecondaryRangeMult          *SkillTable `yaml:"secondary_range_mult"`

	Autoscale *bool `yaml:"autoscale"`
}

// AutoscaleEnabled reports the autoscale flag, defaulting to true.
func (c *AIClass) AutoscaleEnabled() bool {
	return c.Autoscale == nil || *c.Autoscale
}

// ProfileFlag is a behaviour switch set on an AI profile.
type ProfileFlag uint32

const (
	ProfileFreeAfterburnerUse ProfileFlag = 1 << iota
	ProfileSmartShieldManagement
	ProfileAllowRearmWhileEngaged
	ProfileHuntStealthWithoutLOS
	ProfileNoDynamicTargetSwitch
)

var profileFlagNames = map[string]ProfileFlag{
	"free_afterburner_use":      ProfileFreeAfterburnerUse,
	"smart_shield_management":   ProfileSmartShieldManagement,
	"allow_rearm_while_engaged": ProfileAllowRearmWhileEngaged,
	"hunt_stealth_without_los":  ProfileHuntStealthWithoutLOS,
	"no_dynamic_target_switch":  ProfileNoDynamicTargetSwitch,
}

// ParseProfileFlag converts a table flag name.
func ParseProfileFlag(name string) (ProfileFlag, error) {
	f, ok := profileFlagNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown profile flag %q", name)
	}
	return f, nil
}

// AIProfile carries mission-wide defaults for every tunable that an AI class may override.
type AIProfile struct {
	Name string `yaml:"name"`

	MaxAttackers SkillTable `yaml:"max_attackers"`

	CmeasureFireChance          SkillTable `yaml:"cmeasure_fire_chance"`
	InRangeTime                 SkillTable `yaml:"in_range_time"`
	LinkAmmoLevelsMaybe         SkillTable `yaml:"link_ammo_levels_maybe"`
	LinkAmmoLevelsAlways        SkillTable `yaml:"link_ammo_levels_always"`
	PrimaryAmmoBurstMult        SkillTable `yaml:"primary_ammo_burst_mult"`
	LinkEnergyLevelsMaybe       SkillTable `yaml:"link_energy_levels_maybe"`
	LinkEnergyLevelsAlways      SkillTable `yaml:"link_energy_levels_always"`
	PredictPositionDelay        SkillTable `yaml:"predict_position_delay"`
	ShieldManageDelay           SkillTable `yaml:"shield_manage_delay"`
	FireDelayScaleFriendly      SkillTable `yaml:"fire_delay_scale_friendly"`
	FireDelayScaleHostile       SkillTable `yaml:"fire_delay_scale_hostile"`
	SecondaryDelayScaleFriendly SkillTable `yaml:"secondary_delay_scale_friendly"`
	SecondaryDelayScaleHostile  SkillTable `yaml:"secondary_delay_scale_hostile"`
	TurnTimeScale               SkillTable `yaml:"turn_time_scale"`
	GlideAttackPercent          SkillTable `yaml:"glide_attack_percent"`
	CircleStrafePercent         SkillTable `yaml:"circle_strafe_percent"`
	GlideStrafePercent          SkillTable `yaml:"glide_strafe_percent"`
	RandomSidethrustPercent     SkillTable `yaml:"random_sidethrust_percent"`
	StalemateTimeThresh         SkillTable `yaml:"stalemate_time_thresh"`
	StalemateDistThresh         SkillTable `yaml:"stalemate_dist_thresh"`
	MissileOnPlayerChance       SkillTable `yaml:"missile_on_player_chance"`
	MaxAimUpdateDelay           SkillTable `yaml:"max_aim_update_delay"`
	TurretMaxAimUpdateDelay     SkillTable `yaml:"turret_max_aim_update_delay"`
	AfterburnerUseFactor        SkillTable `yaml:"afterburner_use_factor"`
	ShockwaveEvadeChance        SkillTable `yaml:"shockwave_evade_chance"`
	GetAwayChance               SkillTable `yaml:"get_away_chance"`
	SecondaryRangeMult          SkillTable `yaml:"secondary_range_mult"`

	FlagNames []string    `yaml:"flags"`
	Flags     ProfileFlag `yaml:"-"`
}

// Has reports whether a profile flag is set.
func (p *AIProfile) Has(f ProfileFlag) bool {
	return p.Flags&f != 0
}

// Pick returns the class override when present, else the profile value.
func Pick(override *SkillTable, def SkillTable, skill int) float64 {
	if override != nil {
		return override.At(skill)
	}
	return def.At(skill)
}
