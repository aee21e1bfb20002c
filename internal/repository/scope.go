package repository

import (
	"gorm.io/gorm"
)

// LeadScope restricts lead queries to the rows an identity may see.
// The zero value matches only leads with an empty submitter, so a missing
// scope never widens access.
type LeadScope struct {
	All         bool
	SubmittedBy string
}

// AllLeads is the unrestricted scope used for admins and jobs
var AllLeads = LeadScope{All: true}

// OwnLeads restricts queries to leads submitted by email
func OwnLeads(email string) LeadScope {
	return LeadScope{SubmittedBy: email}
}

// IsRestricted reports whether the scope filters by submitter
func (s LeadScope) IsRestricted() bool {
	return !s.All
}

// ApplyLeadScope applies the submitter filter to a query on the leads table.
// If the scope is unrestricted the query is returned unchanged.
func ApplyLeadScope(query *gorm.DB, scope LeadScope) *gorm.DB {
	if scope.IsRestricted() {
		return query.Where("leads.submitted_by = ?", scope.SubmittedBy)
	}
	return query
}
