// types.go
package preset

// RawConfig is a banner as written in YAML (or JSON over the API). Every field
// is optional so files can be layered: defaults.yaml <- built-in <- banners/<name>.yaml.
type RawConfig struct {
	Version    string   `yaml:"version" json:"version,omitempty"`
	Name       string   `yaml:"name" json:"name,omitempty"`
	Notes      string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	Cost       *CostCfg `yaml:"cost,omitempty" json:"cost,omitempty"`
	Five       *TierCfg `yaml:"five,omitempty" json:"five,omitempty"`
	Four       *TierCfg `yaml:"four,omitempty" json:"four,omitempty"`
	FillerRate *float64 `yaml:"filler_rate,omitempty" json:"filler_rate,omitempty"` // nil => 1 - five - four
	Path       *PathCfg `yaml:"path,omitempty" json:"path,omitempty"`
}

type CostCfg struct {
	Name    string `yaml:"name" json:"name,omitempty"`
	PerPull *int   `yaml:"per_pull" json:"per_pull,omitempty"`
}

type TierCfg struct {
	BaseRate        *float64      `yaml:"base_rate" json:"base_rate,omitempty"`
	SoftStart       *int          `yaml:"soft_start,omitempty" json:"soft_start,omitempty"`
	Increment       *float64      `yaml:"increment,omitempty" json:"increment,omitempty"`
	HardPity        *int          `yaml:"hard_pity,omitempty" json:"hard_pity,omitempty"`
	FocusRate       *float64      `yaml:"focus_rate,omitempty" json:"focus_rate,omitempty"`
	FocusCharacters *int          `yaml:"focus_characters,omitempty" json:"focus_characters,omitempty"`
	FocusWeapons    *int          `yaml:"focus_weapons,omitempty" json:"focus_weapons,omitempty"`
	Guarantee       *GuaranteeCfg `yaml:"guarantee,omitempty" json:"guarantee,omitempty"`
}

// GuaranteeCfg mirrors gacha.FocusGuarantee. An empty table repeats focus_rate.
type GuaranteeCfg struct {
	Threshold int       `yaml:"threshold" json:"threshold"`
	Table     []float64 `yaml:"table,omitempty" json:"table,omitempty"`
}

type PathCfg struct {
	Threshold int `yaml:"threshold" json:"threshold"`
}

// GoalCfg is a goal as written in YAML or JSON.
type GoalCfg struct {
	Combinator string      `yaml:"combinator" json:"combinator"`
	UsePath    bool        `yaml:"use_path,omitempty" json:"use_path,omitempty"`
	Targets    []TargetCfg `yaml:"targets" json:"targets"`
}

type TargetCfg struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Tier   int    `yaml:"tier" json:"tier"`
	Pool   string `yaml:"pool,omitempty" json:"pool,omitempty"` // focus (default) | non_focus | any
	Unit   string `yaml:"unit,omitempty" json:"unit,omitempty"` // any (default) | character | weapon | specific
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty"` // character | weapon, for unit=specific
	Index  int    `yaml:"index,omitempty" json:"index,omitempty"`
	Copies int    `yaml:"copies" json:"copies"`
}
