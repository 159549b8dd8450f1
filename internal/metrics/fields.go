package metrics

// Attribute keys shared by every instrument.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrOutcome = "outcome"
)

// OutcomeOK labels a team selection that returned a result.
const OutcomeOK = "ok"
