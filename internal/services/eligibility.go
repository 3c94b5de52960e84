package services

import (
	"office-backend/internal/models"
)

// ResolveEligible computes the set of employees allowed to claim from a
// distribution, given the current active roster of its office. The result is
// a subset of the roster in roster order:
//
//   - an open distribution admits the whole roster;
//   - a targeted distribution admits only the targeted ids that are still on
//     the roster. Targets that departed or were never valid are dropped
//     silently rather than reported, so a stale target list degrades to a
//     smaller eligible set instead of an error.
//
// The function reads nothing outside its arguments; callers are responsible
// for passing a roster already filtered to active, claim-eligible roles.
func ResolveEligible(dist *models.Distribution, roster []*models.Employee) []*models.Employee {
	if dist.IsForAllEmployees {
		return roster
	}

	targeted := make(map[int]bool, len(dist.TargetEmployees))
	for _, id := range dist.TargetEmployees {
		targeted[id] = true
	}

	eligible := make([]*models.Employee, 0, len(dist.TargetEmployees))
	for _, emp := range roster {
		if targeted[emp.ID] {
			eligible = append(eligible, emp)
		}
	}
	return eligible
}

// IsEligible reports whether one employee is in the eligible set of a
// distribution, given the office roster.
func IsEligible(dist *models.Distribution, roster []*models.Employee, employeeID int) bool {
	for _, emp := range ResolveEligible(dist, roster) {
		if emp.ID == employeeID {
			return true
		}
	}
	return false
}
