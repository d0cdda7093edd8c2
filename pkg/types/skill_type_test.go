package types

import "testing"

func TestParseSkill(t *testing.T) {
	for _, s := range AllSkills {
		got, err := ParseSkill(s.String())
		if err != nil {
			t.Fatalf("ParseSkill(%q) failed: %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseSkill(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if got, err := ParseSkill(" Digger "); err != nil || got != SkillDigger {
		t.Errorf("ParseSkill should ignore case and spaces, got %v, %v", got, err)
	}
	if _, err := ParseSkill("jumper"); err == nil {
		t.Error("expected error for unknown skill")
	}
}

func TestSkillValid(t *testing.T) {
	if SkillUnknown.Valid() || SkillType(99).Valid() {
		t.Error("unknown skills must be invalid")
	}
	for _, s := range AllSkills {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
	}
}
