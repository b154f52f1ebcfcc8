package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults, cleans up rule lists and returns the
// normalized copy plus everything a UI should show the operator.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	for i := range out.Matching.SkillRules {
		out.Matching.SkillRules[i].Any = trimList(out.Matching.SkillRules[i].Any)
	}
	for i := range out.Matching.TitleRules {
		out.Matching.TitleRules[i].Any = trimList(out.Matching.TitleRules[i].Any)
	}
	for i := range out.Matching.Penalties {
		out.Matching.Penalties[i].Any = trimList(out.Matching.Penalties[i].Any)
	}

	// ---- Defaults ----

	if out.App.Port == 0 {
		out.App.Port = 38560
	}
	if out.SLA.TargetDays == 0 {
		out.SLA.TargetDays = 15
	}
	if out.SLA.UrgentWindowDays == 0 {
		out.SLA.UrgentWindowDays = 3
	}
	if out.Notifications.DigestSeconds == 0 {
		out.Notifications.DigestSeconds = 30
	}
	if out.Notifications.RetentionDays == 0 {
		out.Notifications.RetentionDays = 90
	}
	if out.Auth.SessionTTLMinutes == 0 {
		out.Auth.SessionTTLMinutes = 8 * 60
	}
	if out.Auth.BootstrapUser == "" {
		out.Auth.BootstrapUser = "admin"
	}
	if out.PublicApply.PerMinute == 0 {
		out.PublicApply.PerMinute = 10
	}
	if out.PublicApply.Burst == 0 {
		out.PublicApply.Burst = 5
	}

	// ---- Validation rules ----

	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.SLA.TargetDays < 1 {
		res.addErr("sla.target_days must be >= 1")
	}
	if out.SLA.UrgentWindowDays < 0 {
		res.addErr("sla.urgent_window_days must be >= 0")
	}
	if out.SLA.UrgentWindowDays > out.SLA.TargetDays {
		res.addWarn("sla.urgent_window_days (%d) exceeds sla.target_days (%d); every open vacancy will show as urgent.",
			out.SLA.UrgentWindowDays, out.SLA.TargetDays)
	}
	if out.Matching.BaseScore < 0 || out.Matching.BaseScore > 100 {
		res.addErr("matching.base_score must be 0..100")
	}
	if out.Notifications.DigestSeconds < 5 {
		res.addErr("notifications.digest_seconds must be >= 5")
	} else if out.Notifications.DigestSeconds > 30 {
		res.addWarn("notifications.digest_seconds is above 30; recruiters may see stale unread counts.")
	}

	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				res.addErr("%s[%d].tag is required", name, i)
			}
			if len(r.Any) == 0 {
				res.addErr("%s[%d].any must have at least 1 term", name, i)
			}
		}
	}
	checkRules("matching.skill_rules", out.Matching.SkillRules)
	checkRules("matching.title_rules", out.Matching.TitleRules)
	for i, p := range out.Matching.Penalties {
		if p.Reason == "" {
			res.addErr("matching.penalties[%d].reason is required", i)
		}
		if len(p.Any) == 0 {
			res.addErr("matching.penalties[%d].any must have at least 1 term", i)
		}
	}

	if len(out.Matching.SkillRules)+len(out.Matching.TitleRules) == 0 {
		res.addWarn("no matching rules configured; every application will score the base score only.")
	}

	return out, res
}
