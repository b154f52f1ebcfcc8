package config

import "testing"

func TestNormalizeAndValidateDefaults(t *testing.T) {
	out, vr := NormalizeAndValidate(Config{})
	if !vr.OK() {
		t.Fatalf("empty config should normalize cleanly: %v", vr.Errors)
	}
	if out.App.Port != 38560 {
		t.Errorf("port = %d", out.App.Port)
	}
	if out.SLA.TargetDays != 15 || out.SLA.UrgentWindowDays != 3 {
		t.Errorf("sla defaults = %+v", out.SLA)
	}
	if out.Notifications.DigestSeconds != 30 || out.Notifications.RetentionDays != 90 {
		t.Errorf("notification defaults = %+v", out.Notifications)
	}
	if out.Auth.SessionTTLMinutes != 480 || out.Auth.BootstrapUser != "admin" {
		t.Errorf("auth defaults = %+v", out.Auth)
	}
	if out.PublicApply.PerMinute != 10 || out.PublicApply.Burst != 5 {
		t.Errorf("public apply defaults = %+v", out.PublicApply)
	}
}

func TestNormalizeAndValidateErrors(t *testing.T) {
	var cfg Config
	cfg.App.Port = 99999
	cfg.Matching.BaseScore = 150
	cfg.Notifications.DigestSeconds = 2
	cfg.Matching.SkillRules = []Rule{{Tag: "", Any: nil}}
	cfg.Matching.Penalties = []Penalty{{Reason: "", Any: nil}}

	_, vr := NormalizeAndValidate(cfg)
	if vr.OK() {
		t.Fatal("expected errors")
	}
	if len(vr.Errors) < 5 {
		t.Errorf("errors = %v", vr.Errors)
	}
}

func TestNormalizeDedupesRuleTerms(t *testing.T) {
	var cfg Config
	cfg.Matching.SkillRules = []Rule{{Tag: "Go", Weight: 10, Any: []string{" golang ", "Golang", "", "go"}}}

	out, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("errors: %v", vr.Errors)
	}
	got := out.Matching.SkillRules[0].Any
	if len(got) != 2 || got[0] != "golang" || got[1] != "go" {
		t.Errorf("normalized terms = %v", got)
	}
}

func TestValidateWarnsOnWideUrgentWindow(t *testing.T) {
	var cfg Config
	cfg.SLA.TargetDays = 5
	cfg.SLA.UrgentWindowDays = 10

	_, vr := NormalizeAndValidate(cfg)
	if !vr.OK() {
		t.Fatalf("window wider than target is a warning, not an error: %v", vr.Errors)
	}
	if len(vr.Warnings) == 0 {
		t.Error("expected a warning")
	}
}
