package core

import "mattercore/pkg/domain"

type (
	EntityType         = domain.EntityType
	CaseCategory       = domain.CaseCategory
	CaseStage          = domain.CaseStage
	CaseStatus         = domain.CaseStatus
	CasePriority       = domain.CasePriority
	ActivityKind       = domain.ActivityKind
	Client             = domain.Client
	Case               = domain.Case
	Document           = domain.Document
	ResearchItem       = domain.ResearchItem
	TimeEntry          = domain.TimeEntry
	ActivityItem       = domain.ActivityItem
	RestorativeProfile = domain.RestorativeProfile
	RestorativeSession = domain.RestorativeSession
	MockTrialProfile   = domain.MockTrialProfile
	MockTrialRound     = domain.MockTrialRound
	RoundOutcome       = domain.RoundOutcome
	Snapshot           = domain.Snapshot
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RuleView           = domain.RuleView
	RulesEngine        = domain.RulesEngine
	SnapshotStorage    = domain.SnapshotStorage
)

const (
	EntityClient    = domain.EntityClient
	EntityCase      = domain.EntityCase
	EntityDocument  = domain.EntityDocument
	EntityResearch  = domain.EntityResearch
	EntityTimeEntry = domain.EntityTimeEntry
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)

const (
	SeverityWarn = domain.SeverityWarn
	SeverityLog  = domain.SeverityLog
)
