package incidents

import "strings"

// DefaultingPolicy maps an optional submission field to the value substituted
// when the field is absent or blank. Substitution is deliberate product
// behavior: the intake form never rejects a report over a missing optional
// field.
type DefaultingPolicy map[string]string

const (
	FieldPublicUserID   = "public_user_id"
	FieldAbuserHandle   = "abuser_handle"
	FieldAttackType     = "attack_type"
	FieldDescription    = "description"
	FieldTargetOfAttack = "target_of_attack"
	FieldReporterName   = "reporter_name"
	FieldAffiliation    = "affiliation"
	FieldEntityName     = "entity_name"
	FieldActionsTaken   = "actions_taken"
	FieldPlatform       = "platform"
	FieldTags           = "tags"
	FieldURL            = "url"
)

func StandardDefaults() DefaultingPolicy {
	return DefaultingPolicy{
		FieldPublicUserID:   "1",
		FieldAbuserHandle:   "N/A",
		FieldDescription:    "No description provided",
		FieldTargetOfAttack: "N/A",
		FieldReporterName:   "Anonymous",
		FieldAffiliation:    "Independent",
		FieldEntityName:     "N/A",
		FieldActionsTaken:   "None reported",
		FieldTags:           "general",
		FieldURL:            "url",
		FieldPlatform:       "Other",
	}
}

func (p DefaultingPolicy) fill(field, value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return p[field]
}

// Apply returns a copy of sub with every blank optional field replaced by its
// policy default. The attack type is not part of the policy; it stays as
// submitted.
func (p DefaultingPolicy) Apply(sub Submission) Submission {
	sub.PublicUserID = p.fill(FieldPublicUserID, sub.PublicUserID)
	sub.AbuserHandle = p.fill(FieldAbuserHandle, sub.AbuserHandle)
	sub.Description = p.fill(FieldDescription, sub.Description)
	sub.TargetOfAttack = p.fill(FieldTargetOfAttack, sub.TargetOfAttack)
	sub.ReporterName = p.fill(FieldReporterName, sub.ReporterName)
	sub.Affiliation = p.fill(FieldAffiliation, sub.Affiliation)
	sub.EntityName = p.fill(FieldEntityName, sub.EntityName)
	sub.ActionsTaken = p.fill(FieldActionsTaken, sub.ActionsTaken)
	sub.Tags = p.fill(FieldTags, sub.Tags)
	sub.URL = p.fill(FieldURL, sub.URL)
	sub.Platform = p.fill(FieldPlatform, sub.Platform)
	sub.AttackType = strings.TrimSpace(sub.AttackType)
	return sub
}
