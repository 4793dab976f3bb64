package engine

// Phase is the coarse state-machine view of a State.
type Phase int

const (
	Idle Phase = iota
	OperandEntered
	OperatorPending
	ResultShown
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case OperandEntered:
		return "operand_entered"
	case OperatorPending:
		return "operator_pending"
	case ResultShown:
		return "result_shown"
	default:
		return "unknown"
	}
}

// Phase derives the state-machine phase from the state fields.
func (s State) Phase() Phase {
	switch {
	case s == Initial():
		return Idle
	case s.Operator != NoOperator:
		return OperatorPending
	case s.WaitingForSecondOperand && s.HasFirstOperand:
		return ResultShown
	default:
		return OperandEntered
	}
}
