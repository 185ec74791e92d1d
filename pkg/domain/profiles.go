package domain

// FormStatus is the tri-state completion flag for restorative intake forms.
type FormStatus string

// Form statuses.
const (
	FormPending       FormStatus = "pending"
	FormComplete      FormStatus = "complete"
	FormNotApplicable FormStatus = "n/a"
)

// TeamRole identifies which side a mock-trial team argues.
type TeamRole string

// Mock-trial team roles.
const (
	RoleProsecution      TeamRole = "prosecution"
	RoleDefense          TeamRole = "defense"
	RoleJudge            TeamRole = "judge"
	RoleRestorativePanel TeamRole = "restorative_panel"
)

// RestorativeProfile is the nested payload carried by restorative cases.
type RestorativeProfile struct {
	Intake       *RestorativeIntake   `json:"intake,omitempty"`
	Participants []Participant        `json:"participants"`
	Forms        RestorativeForms     `json:"forms"`
	CarePlan     string               `json:"carePlan,omitempty"`
	Sessions     []RestorativeSession `json:"sessions"`
}

// RestorativeIntake captures the referral and risk picture gathered before
// circle work begins.
type RestorativeIntake struct {
	ReferralSource       string `json:"referralSource,omitempty"`
	IncidentSummary      string `json:"incidentSummary,omitempty"`
	Goals                string `json:"goals,omitempty"`
	SupportNeeds         string `json:"supportNeeds,omitempty"`
	RiskFactors          string `json:"riskFactors,omitempty"`
	PreferredFacilitator string `json:"preferredFacilitator,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// Participant is a person taking part in a restorative process.
type Participant struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// RestorativeForms tracks the completion state of the required paperwork.
type RestorativeForms struct {
	Consent      FormStatus `json:"consent"`
	SafetyPlan   FormStatus `json:"safetyPlan"`
	MediaRelease FormStatus `json:"mediaRelease"`
}

// RestorativeSession records one facilitated session.
type RestorativeSession struct {
	Date         string `json:"date,omitempty"`
	Facilitator  string `json:"facilitator,omitempty"`
	FocusArea    string `json:"focusArea,omitempty"`
	Summary      string `json:"summary,omitempty"`
	Agreements   string `json:"agreements,omitempty"`
	FollowUpDate string `json:"followUpDate,omitempty"`
}

// MockTrialProfile is the nested payload carried by mock-trial cases.
type MockTrialProfile struct {
	TeamName      string           `json:"teamName,omitempty"`
	Role          TeamRole         `json:"role"`
	Opponent      string           `json:"opponent,omitempty"`
	CasePacket    string           `json:"casePacket,omitempty"`
	StrategyNotes string           `json:"strategyNotes,omitempty"`
	Rounds        []MockTrialRound `json:"rounds"`
}

// MockTrialRound is a scheduled competition round. Outcome stays nil until
// the round is scored.
type MockTrialRound struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ScheduledAt string        `json:"scheduledAt,omitempty"`
	Venue       string        `json:"venue,omitempty"`
	JudgePanel  []string      `json:"judgePanel"`
	Outcome     *RoundOutcome `json:"outcome,omitempty"`
}

// RoundOutcome holds the scored result of a round.
type RoundOutcome struct {
	ProsecutionScore float64 `json:"prosecutionScore"`
	DefenseScore     float64 `json:"defenseScore"`
	Verdict          string  `json:"verdict,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

// EmptyRestorativeProfile returns the profile synthesized for a restorative
// case that has none persisted.
func EmptyRestorativeProfile() *RestorativeProfile {
	return &RestorativeProfile{
		Participants: []Participant{},
		Forms: RestorativeForms{
			Consent:      FormPending,
			SafetyPlan:   FormPending,
			MediaRelease: FormPending,
		},
		Sessions: []RestorativeSession{},
	}
}

// EmptyMockTrialProfile returns the profile synthesized for a mock-trial case
// that has none persisted.
func EmptyMockTrialProfile() *MockTrialProfile {
	return &MockTrialProfile{
		Role:   RoleProsecution,
		Rounds: []MockTrialRound{},
	}
}
