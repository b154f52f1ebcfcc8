package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag" json:"tag"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason" json:"reason"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	SLA struct {
		TargetDays       int `yaml:"target_days" json:"target_days"`
		UrgentWindowDays int `yaml:"urgent_window_days" json:"urgent_window_days"`
	} `yaml:"sla" json:"sla"`

	Matching struct {
		BaseScore  int       `yaml:"base_score" json:"base_score"`
		SkillRules []Rule    `yaml:"skill_rules" json:"skill_rules"`
		TitleRules []Rule    `yaml:"title_rules" json:"title_rules"`
		Penalties  []Penalty `yaml:"penalties" json:"penalties"`
	} `yaml:"matching" json:"matching"`

	Notifications struct {
		DigestSeconds int `yaml:"digest_seconds" json:"digest_seconds"`
		RetentionDays int `yaml:"retention_days" json:"retention_days"`
	} `yaml:"notifications" json:"notifications"`

	Auth struct {
		SessionTTLMinutes int    `yaml:"session_ttl_minutes" json:"session_ttl_minutes"`
		BootstrapUser     string `yaml:"bootstrap_user" json:"bootstrap_user"`
	} `yaml:"auth" json:"auth"`

	PublicApply struct {
		PerMinute float64 `yaml:"per_minute" json:"per_minute"`
		Burst     int     `yaml:"burst" json:"burst"`
	} `yaml:"public_apply" json:"public_apply"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
