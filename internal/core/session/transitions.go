package session

// Action is a user-driven status change.
type Action string

const (
	ActionStart Action = "start"
	ActionPause Action = "pause"
)

// Transition is a single allowed status edge.
type Transition struct {
	From   Status
	To     Status
	Action Action
}

var transitionsTable = []Transition{
	{From: StatusIdle, To: StatusRunning, Action: ActionStart},
	{From: StatusPaused, To: StatusRunning, Action: ActionStart},
	{From: StatusRunning, To: StatusPaused, Action: ActionPause},
}

// TransitionFor returns the allowed transition for a status+action.
func TransitionFor(from Status, action Action) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Action == action {
			return tr, true
		}
	}
	return Transition{}, false
}

func apply(state State, action Action) State {
	tr, ok := TransitionFor(state.Status, action)
	if !ok {
		return state
	}
	state.Status = tr.To
	return state
}

// nextPhase is the mode-switch table:
//
//	work        -> long_break if session >= limit, else short_break (session kept)
//	long_break  -> work, session reset to 1
//	short_break -> work, session + 1
func nextPhase(mode Mode, session, limit int) (Mode, int) {
	switch mode {
	case ModeWork:
		if session >= limit {
			return ModeLongBreak, session
		}
		return ModeShortBreak, session
	case ModeLongBreak:
		return ModeWork, 1
	default:
		return ModeWork, session + 1
	}
}
