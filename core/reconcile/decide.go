package reconcile

// Reasons attached to actions.
const (
	ReasonReplicate   = "re-replicate"
	ReasonOrphaned    = "orphaned"
	ReasonDeactivated = "deactivated"
)

// Decide maps presence and activation to a corrective action. Rules are
// evaluated in order and the first match wins.
func Decide(onAuthor, onPublish, activated bool) ActionType {
	action, _ := decide(onAuthor, onPublish, activated)
	return action
}

// Reason returns the human readable cause of the action Decide would return.
func Reason(onAuthor, onPublish, activated bool) string {
	_, reason := decide(onAuthor, onPublish, activated)
	return reason
}

func decide(onAuthor, onPublish, activated bool) (ActionType, string) {
	switch {
	case activated && !onPublish:
		return ActionActivate, ReasonReplicate
	case onPublish && !onAuthor:
		return ActionDeactivate, ReasonOrphaned
	case onPublish && !activated:
		return ActionDeactivate, ReasonDeactivated
	default:
		return ActionNone, ""
	}
}

// DecideRecord returns the action for a record. With strict set, a record whose
// status is Unknown gets no action and skipped is true.
func DecideRecord(r *Record, strict bool) (action Action, skipped bool) {
	if strict && r.OnAuthor && r.Activation == Unknown {
		return Action{Type: ActionNone, Path: r.Path}, true
	}
	t, reason := decide(r.OnAuthor, r.OnPublish, r.Activated())
	return Action{Type: t, Path: r.Path, Reason: reason}, false
}
