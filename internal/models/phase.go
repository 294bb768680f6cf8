package models

// Phase is the funnel stage of a test session. Transitions are strictly
// forward: GENERAL -> SPECIFIC -> CONFIRMATION -> FINISHED.
type Phase string

const (
	PhaseGeneral      Phase = "GENERAL"
	PhaseSpecific     Phase = "SPECIFIC"
	PhaseConfirmation Phase = "CONFIRMATION"
	PhaseFinished     Phase = "FINISHED"
)

// Order gives the position of the phase in the funnel, used to deliver
// questions oldest phase first.
func (p Phase) Order() int {
	switch p {
	case PhaseGeneral:
		return 0
	case PhaseSpecific:
		return 1
	case PhaseConfirmation:
		return 2
	case PhaseFinished:
		return 3
	default:
		return 4
	}
}

// Next returns the following phase; FINISHED is terminal.
func (p Phase) Next() Phase {
	switch p {
	case PhaseGeneral:
		return PhaseSpecific
	case PhaseSpecific:
		return PhaseConfirmation
	default:
		return PhaseFinished
	}
}

// QuestionPhases lists the phases that carry questions.
func QuestionPhases() []Phase {
	return []Phase{PhaseGeneral, PhaseSpecific, PhaseConfirmation}
}
