package domain

import "strings"

// NonEmpty reports whether s contains anything besides whitespace.
func NonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidCaseCategory reports membership in the case category set.
func ValidCaseCategory(c CaseCategory) bool {
	switch c {
	case CaseLegal, CaseRestorative, CaseMockTrial:
		return true
	}
	return false
}

// ValidCaseStage reports membership in the workflow stage set. Membership is
// the only validity constraint; stages have no ordering.
func ValidCaseStage(s CaseStage) bool {
	switch s {
	case StageIntake, StageInvestigation, StageDiscovery, StageBriefing, StageHearing, StageAppeal, StageClosed:
		return true
	}
	return false
}

// ValidCaseStatus reports membership in the case status set.
func ValidCaseStatus(s CaseStatus) bool {
	switch s {
	case StatusActive, StatusOnHold, StatusClosed:
		return true
	}
	return false
}

// ValidCasePriority reports membership in the priority set.
func ValidCasePriority(p CasePriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidDocumentStatus reports membership in the document status set.
func ValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentDrafting, DocumentInReview, DocumentFinalized:
		return true
	}
	return false
}

// ValidExternalDocKind reports membership in the external document kind set.
func ValidExternalDocKind(k ExternalDocKind) bool {
	switch k {
	case ExternalDoc, ExternalSheet, ExternalSlide, ExternalForm, ExternalDrawing:
		return true
	}
	return false
}

// ValidResearchStatus reports membership in the research status set.
func ValidResearchStatus(s ResearchStatus) bool {
	switch s {
	case ResearchInProgress, ResearchNeedsUpdate, ResearchReady:
		return true
	}
	return false
}

// ValidTimeEntryStatus reports membership in the time entry status set.
func ValidTimeEntryStatus(s TimeEntryStatus) bool {
	switch s {
	case TimeDraft, TimeSubmitted, TimeApproved:
		return true
	}
	return false
}

// ValidFormStatus reports membership in the form completion set.
func ValidFormStatus(s FormStatus) bool {
	switch s {
	case FormPending, FormComplete, FormNotApplicable:
		return true
	}
	return false
}

// ValidTeamRole reports membership in the mock-trial role set.
func ValidTeamRole(r TeamRole) bool {
	switch r {
	case RoleProsecution, RoleDefense, RoleJudge, RoleRestorativePanel:
		return true
	}
	return false
}

// ValidActivityKind reports membership in the activity kind set.
func ValidActivityKind(k ActivityKind) bool {
	switch k {
	case ActivityClientCreated, ActivityClientUpdated,
		ActivityCaseCreated, ActivityCaseUpdated,
		ActivityDocumentCreated, ActivityDocumentUpdated,
		ActivityResearchCreated, ActivityResearchUpdated,
		ActivityTimeLogged:
		return true
	}
	return false
}
