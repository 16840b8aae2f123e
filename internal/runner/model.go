package runner

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Result represents the result of a single check execution.
// Matches <state-dir>/checks/<check>.json schema.
type Result struct {
	Check    string `json:"check"`
	Status   Status `json:"status"`
	ExitCode int    `json:"exit_code"`
	Message  string `json:"message,omitempty"`
}

// Pass returns a passing result for check.
func Pass(check string) Result {
	return Result{Check: check, Status: StatusPass}
}

// Fail returns a failing result for check. A zero exitCode is stored as 1.
func Fail(check string, exitCode int, message string) Result {
	if exitCode <= 0 {
		exitCode = 1
	}
	return Result{Check: check, Status: StatusFail, ExitCode: exitCode, Message: message}
}

// Failed reports whether r is a failure.
func (r Result) Failed() bool { return r.Status != StatusPass }

// Summary is the aggregate of one run.
type Summary struct {
	RunID   string
	Root    string
	Checks  []string // IDs in execution order
	Failed  []string // IDs of failed checks
	Results []Result
}

// OK reports whether every check passed.
func (s *Summary) OK() bool { return len(s.Failed) == 0 }

// LastRun represents the summary of the last execution.
// Matches <state-dir>/last-run.json schema.
type LastRun struct {
	RunID  string   `json:"run_id"`
	Root   string   `json:"root"`
	Status string   `json:"status"` // "pass" or "fail"
	Checks []string `json:"checks"` // Ordered list of checks run
	Failed []string `json:"failed"` // List of failed checks
}

func (s *Summary) lastRun() LastRun {
	last := LastRun{
		RunID:  s.RunID,
		Root:   s.Root,
		Status: string(StatusPass),
		Checks: s.Checks,
		Failed: s.Failed,
	}
	if !s.OK() {
		last.Status = string(StatusFail)
	}
	return last
}
