package models

// TransitionPolicy decides whether the stage board may move a request.
type TransitionPolicy interface {
	Allow(from, to RequestStatus) bool
}

// PermissiveTransitions lets an operator move a card to any column.
type PermissiveTransitions struct{}

func (PermissiveTransitions) Allow(from, to RequestStatus) bool {
	return to.Valid()
}

// TransitionGraph allows only the listed moves.
type TransitionGraph map[RequestStatus][]RequestStatus

func (g TransitionGraph) Allow(from, to RequestStatus) bool {
	for _, next := range g[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StrictTransitions is the production-team flow after the HOD decision.
// Decisions themselves go through Decide, so pending and rejected have no
// outgoing board moves.
var StrictTransitions = TransitionGraph{
	StatusApproved:   {StatusInProgress, StatusOnHold, StatusCompleted},
	StatusInProgress: {StatusOnHold, StatusCompleted},
	StatusOnHold:     {StatusInProgress, StatusCompleted},
	StatusCompleted:  {StatusInProgress},
}
