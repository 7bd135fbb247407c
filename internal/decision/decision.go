// Package decision turns a validation result into a claim verdict.
package decision

import (
	"fmt"
	"strings"

	"medclaim/internal/domain"
)

// ApprovedReason is the reason given for every approved claim.
const ApprovedReason = "All required documents present and data is consistent."

// Decide rejects the claim when anything is missing or inconsistent and
// approves it otherwise.
func Decide(v domain.ValidationResult) domain.ClaimDecision {
	if v.Passed() {
		return domain.ClaimDecision{Status: domain.ClaimStatusApproved, Reason: ApprovedReason}
	}

	var parts []string
	if len(v.MissingDocuments) > 0 {
		names := make([]string, len(v.MissingDocuments))
		for i, t := range v.MissingDocuments {
			names[i] = string(t)
		}
		parts = append(parts, fmt.Sprintf("Missing required documents: %s.", strings.Join(names, ", ")))
	}
	if len(v.Discrepancies) > 0 {
		parts = append(parts, fmt.Sprintf("Discrepancies found: %s.", strings.Join(v.Discrepancies, "; ")))
	}
	return domain.ClaimDecision{Status: domain.ClaimStatusRejected, Reason: strings.Join(parts, " ")}
}
