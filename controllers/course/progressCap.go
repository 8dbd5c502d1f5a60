package controllers

import "math"

const (
	// Grace added to the server-observed delta to tolerate clock skew
	// and network latency between player reports.
	clockSkewGraceSec = 3

	// Slack over the proportional playback rate, so seeking back into
	// already-watched segments or 1.5x playback does not stall progress.
	playbackSlackFactor = 1.6

	// Fallback advance rate when the content length is unknown:
	// 5% per 30 effective seconds.
	fallbackWindowSec    = 30.0
	fallbackPctPerWindow = 5.0
)

// progressCap is the result of capping one progress report.
type progressCap struct {
	CappedView        int
	AllowedDeltaPct   int
	EffectiveDeltaSec int
}

// capLessonProgress bounds a client-reported view percentage by the
// playback time the server can vouch for. serverDeltaSec is nil when no
// prior progress record exists. The result never regresses below prevView
// and never exceeds 100. Pure function, no I/O.
func capLessonProgress(prevView, requestedView int, serverDeltaSec *int, clientDeltaSec, durationSec int) progressCap {
	prevView = clampPct(prevView)
	requestedView = clampPct(requestedView)

	// The client cannot claim more elapsed playback than the server clock
	// allows, plus the skew grace.
	effectiveDeltaSec := clientDeltaSec
	if serverDeltaSec != nil && *serverDeltaSec+clockSkewGraceSec < effectiveDeltaSec {
		effectiveDeltaSec = *serverDeltaSec + clockSkewGraceSec
	}
	if effectiveDeltaSec < 0 {
		effectiveDeltaSec = 0
	}

	var allowedDeltaPct int
	if durationSec > 0 {
		allowedDeltaPct = int(math.Ceil(float64(effectiveDeltaSec) / float64(durationSec) * 100 * playbackSlackFactor))
	} else {
		allowedDeltaPct = int(math.Ceil(float64(effectiveDeltaSec) / fallbackWindowSec * fallbackPctPerWindow))
	}
	// Any positive elapsed time grants at least 1% of advance.
	if effectiveDeltaSec > 0 && allowedDeltaPct < 1 {
		allowedDeltaPct = 1
	}

	maxAllowed := prevView + allowedDeltaPct
	if maxAllowed > 100 {
		maxAllowed = 100
	}

	capped := requestedView
	if capped > maxAllowed {
		capped = maxAllowed
	}
	if capped < prevView {
		capped = prevView
	}
	if capped > 100 {
		capped = 100
	}

	return progressCap{
		CappedView:        capped,
		AllowedDeltaPct:   allowedDeltaPct,
		EffectiveDeltaSec: effectiveDeltaSec,
	}
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
