package models

// Action names a removal action against the platform
type Action string

const (
	ActionUnstock Action = "unstock"
	ActionUnlike  Action = "unlike"
)

// ActionResult records one removal attempt for one item
type ActionResult struct {
	Attempted bool
	Succeeded bool
}

// ItemReport holds the per-action outcomes for one selected item
type ItemReport struct {
	ItemID  string
	Title   string
	Unstock ActionResult
	Unlike  ActionResult
}

// Removed reports whether every attempted action for the item succeeded
// and at least one action was attempted.
func (r ItemReport) Removed() bool {
	attempted := r.Unstock.Attempted || r.Unlike.Attempted
	if !attempted {
		return false
	}
	if r.Unstock.Attempted && !r.Unstock.Succeeded {
		return false
	}
	if r.Unlike.Attempted && !r.Unlike.Succeeded {
		return false
	}
	return true
}

// Report collects removal outcomes for a whole selection
type Report struct {
	Items []ItemReport
}

// Failures returns the reports that contain at least one failed action
func (r Report) Failures() []ItemReport {
	var failed []ItemReport
	for _, ir := range r.Items {
		if (ir.Unstock.Attempted && !ir.Unstock.Succeeded) ||
			(ir.Unlike.Attempted && !ir.Unlike.Succeeded) {
			failed = append(failed, ir)
		}
	}
	return failed
}
