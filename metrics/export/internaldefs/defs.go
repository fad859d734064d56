package internaldefs

import (
	"github.com/perchapps/appcore"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   appcore.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   appcore.MetricID
	Name string
	Help string
}

// CounterDefs maps every counter to its stable wire name.
var CounterDefs = []CounterDef{
	{ID: appcore.MetricSignInSuccess, Name: "appcore_signin_success_total", Help: "Successful sign-ins."},
	{ID: appcore.MetricSignInFailure, Name: "appcore_signin_failure_total", Help: "Rejected sign-ins."},
	{ID: appcore.MetricSignUpSuccess, Name: "appcore_signup_success_total", Help: "Successful registrations."},
	{ID: appcore.MetricSignUpFailure, Name: "appcore_signup_failure_total", Help: "Rejected registrations."},
	{ID: appcore.MetricSignOut, Name: "appcore_signout_total", Help: "Local sign-outs."},
	{ID: appcore.MetricSignOutRemoteError, Name: "appcore_signout_remote_error_total", Help: "Sign-outs whose remote invalidation failed."},
	{ID: appcore.MetricSessionRestored, Name: "appcore_session_restored_total", Help: "Sessions restored from persistence on start."},
	{ID: appcore.MetricTokenRefreshed, Name: "appcore_token_refreshed_total", Help: "Token-refresh notifications applied."},
	{ID: appcore.MetricExternalSignOut, Name: "appcore_external_signout_total", Help: "Sign-outs pushed by the credential store."},
	{ID: appcore.MetricRewardShown, Name: "appcore_reward_shown_total", Help: "Displayed reward events."},
	{ID: appcore.MetricRewardReplaced, Name: "appcore_reward_replaced_total", Help: "Rewards superseded mid-display."},
	{ID: appcore.MetricRewardExpired, Name: "appcore_reward_expired_total", Help: "Rewards cleared by the countdown."},
}

// HistogramDefs maps every histogram to its stable wire name.
var HistogramDefs = []HistogramDef{
	{ID: appcore.MetricSignInLatency, Name: "appcore_signin_latency_seconds", Help: "Sign-in round-trip latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// core's millisecond thresholds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds the bound spellings usable inside a metric
// name, index-aligned with HistogramBounds.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a snapshot's bucket slice into the fixed shape
// exporters render, tolerating short or absent slices.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// both exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
