package models

// GroupPolicy decides how an unknown group name is handled during a patch run.
type GroupPolicy string

const (
	// PolicyAbort fails the whole run. Nothing is written (default).
	PolicyAbort GroupPolicy = "abort"

	// PolicySkip keeps the file's FileReference and BuildFile records but
	// leaves the file out of any group.
	PolicySkip GroupPolicy = "skip"
)

// ValidGroupPolicies returns all valid group policy values.
func ValidGroupPolicies() []GroupPolicy {
	return []GroupPolicy{PolicyAbort, PolicySkip}
}

// IsValid checks if the group policy is a valid value.
func (p GroupPolicy) IsValid() bool {
	switch p {
	case PolicyAbort, PolicySkip:
		return true
	}
	return false
}

// OrDefault returns PolicyAbort for the empty policy.
func (p GroupPolicy) OrDefault() GroupPolicy {
	if p == "" {
		return PolicyAbort
	}
	return p
}
