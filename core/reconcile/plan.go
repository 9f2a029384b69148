package reconcile

// BuildPlan decides an action for every record. Records and actions come out in
// lexical path order; records without an action are not listed in Actions.
func BuildPlan(records map[string]*Record, strict bool) *Plan {
	plan := &Plan{
		Records: make([]Record, 0, len(records)),
		Actions: make([]Action, 0),
	}

	for _, p := range SortedPaths(records) {
		rec := records[p]
		plan.Records = append(plan.Records, *rec)

		action, skipped := DecideRecord(rec, strict)
		if skipped {
			plan.Skipped = append(plan.Skipped, *rec)
			continue
		}
		if action.Type != ActionNone {
			plan.Actions = append(plan.Actions, action)
		}
	}

	plan.Summary = summarize(plan)
	return plan
}

func summarize(plan *Plan) PlanSummary {
	s := PlanSummary{
		TotalItems: len(plan.Records),
		Skipped:    len(plan.Skipped),
	}
	for i := range plan.Records {
		r := &plan.Records[i]
		if r.OnAuthor {
			s.OnAuthor++
		}
		if r.OnPublish {
			s.OnPublish++
		}
		switch r.Activation {
		case Active:
			s.Activated++
		case Unknown:
			s.UnknownStatus++
		}
	}
	for _, a := range plan.Actions {
		switch a.Type {
		case ActionActivate:
			s.ActivateActions++
		case ActionDeactivate:
			s.DeactivateActions++
		}
	}
	return s
}

// ActionsOf filters plan actions by type.
func (p *Plan) ActionsOf(t ActionType) []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}
