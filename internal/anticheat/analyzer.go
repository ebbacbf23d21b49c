package anticheat

// TimeLog is a single client-reported focus window: the student entered the
// question/tab at Entry and left it at Exit. Both are absolute Unix
// milliseconds. Exit is nil while the window is still open.
type TimeLog struct {
	QuestionID string `json:"questionId,omitempty"`
	Entry      int64  `json:"entry"`
	Exit       *int64 `json:"exit,omitempty"`
}

// minDwellMillis is the shortest believable closed focus window. Anything
// faster after the first entry is treated as scripted interaction.
const minDwellMillis = 1000

// IsSuspicious classifies an activity log in a single forward pass,
// stopping at the first violated rule:
//
//  1. an empty log is clean; absent telemetry is not evidence of cheating
//  2. still-open windows (no exit) are skipped
//  3. an exit before its own entry is a tampered clock
//  4. an entry before the previous closed window's exit means the timeline
//     went backward or overlapped
//  5. a sub-second dwell is scripted interaction, except at index 0 where a
//     near-zero initial focus event is common and benign
//
// The result is computed once at submission time and stored immutably; it is
// never recomputed even if these rules change.
func IsSuspicious(logs []TimeLog) bool {
	var prevExit int64
	closedSeen := false

	for i, l := range logs {
		if l.Exit == nil {
			continue
		}
		exit := *l.Exit

		if exit < l.Entry {
			return true
		}
		if closedSeen && l.Entry < prevExit {
			return true
		}
		if exit-l.Entry < minDwellMillis && i > 0 {
			return true
		}

		prevExit = exit
		closedSeen = true
	}

	return false
}
