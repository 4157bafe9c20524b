package incidents

import "testing"

func TestDefaultingPolicyFillsBlankFields(t *testing.T) {
	policy := StandardDefaults()
	sub := policy.Apply(Submission{AttackType: "  Trolling  "})

	want := Submission{
		PublicUserID:   "1",
		AbuserHandle:   "N/A",
		AttackType:     "Trolling",
		Description:    "No description provided",
		TargetOfAttack: "N/A",
		ReporterName:   "Anonymous",
		Affiliation:    "Independent",
		EntityName:     "N/A",
		ActionsTaken:   "None reported",
		Platform:       "Other",
		Tags:           "general",
		URL:            "url",
	}
	if sub != want {
		t.Fatalf("defaults not applied:\n got  %+v\n want %+v", sub, want)
	}
}

func TestDefaultingPolicyKeepsProvidedValues(t *testing.T) {
	policy := StandardDefaults()
	sub := policy.Apply(Submission{
		PublicUserID: "99",
		AttackType:   "Doxxing",
		Platform:     "Twitter",
		Description:  "targeted harassment campaign",
	})
	if sub.PublicUserID != "99" || sub.Platform != "Twitter" || sub.Description != "targeted harassment campaign" {
		t.Fatalf("provided values overwritten: %+v", sub)
	}
	if sub.ReporterName != "Anonymous" {
		t.Fatalf("blank field not defaulted: %+v", sub)
	}
}

func TestDefaultingPolicyTreatsWhitespaceAsAbsent(t *testing.T) {
	policy := StandardDefaults()
	sub := policy.Apply(Submission{AttackType: "Threats", Tags: "   "})
	if sub.Tags != "general" {
		t.Fatalf("tags = %q, want general", sub.Tags)
	}
}

func TestDefaultingPolicyOverride(t *testing.T) {
	policy := StandardDefaults()
	policy[FieldReporterName] = "Undisclosed"
	sub := policy.Apply(Submission{AttackType: "Threats"})
	if sub.ReporterName != "Undisclosed" {
		t.Fatalf("reporter_name = %q, want Undisclosed", sub.ReporterName)
	}
}
