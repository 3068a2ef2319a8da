package observability

// Metric name prefixes
const (
	MetricPrefix = "courtline"
)

// Metric names
const (
	// Settlement metrics
	WagersCheckedTotal    = MetricPrefix + ".settlement.wagers_checked_total"
	WagersSettledTotal    = MetricPrefix + ".settlement.wagers_settled_total"
	LegsUnresolvedTotal   = MetricPrefix + ".settlement.legs_unresolved_total"
	AmbiguousMatchesTotal = MetricPrefix + ".settlement.ambiguous_matches_total"
	SettlementPassDuration = MetricPrefix + ".settlement.pass_duration"

	// Stat provider metrics
	GatewayCallsTotal    = MetricPrefix + ".gateway.calls_total"
	GatewayTimeoutsTotal = MetricPrefix + ".gateway.timeouts_total"

	// Hit-rate metrics
	HitRateRecomputesTotal = MetricPrefix + ".hitrate.recomputes_total"
)

// Label keys
const (
	LabelVerdict = "verdict"
	LabelReason  = "reason"
	LabelMethod  = "method"
	LabelStat    = "stat"
)

// Unresolved-leg reasons
const (
	ReasonNoGameMatch  = "no_game_match"
	ReasonGameNotFinal = "game_not_final"
	ReasonStatMissing  = "stat_missing"
	ReasonLookupFailed = "lookup_failed"
)
