// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package db

// job states
const (
	QueueingState = "Queueing" // job accepted and waits for the judging mutex
	RunningState  = "Running"  // job is being judged
	FinishedState = "Finished" // judging completed, result is final until rerun
	CanceledState = "Canceled" // reserved: job canceled before judging
)

// case and job results (verdicts)
const (
	CompileOkResult    = "Compilation Success"
	CompileErrorResult = "Compilation Error"
	AcceptedResult     = "Accepted"
	WrongAnswerResult  = "Wrong Answer"
	RuntimeErrorResult = "Runtime Error"
	TimeLimitResult    = "Time Limit Exceeded"
	WaitingResult      = "Waiting"
	SkippedResult      = "Skipped"
	SystemErrorResult  = "System Error"
)

// UserRow is db row of oj_user table.
// User id 0 is the pre-seeded root user, ids are dense and strictly increasing.
type UserRow struct {
	UserId int    `json:"id"`   // unique user id
	Name   string `json:"name"` // user name, unique
}

// ContestRow is db row of oj_contest table.
// Contest id 0 is reserved: the implicit global contest meaning all jobs, all users, all problems.
type ContestRow struct {
	ContestId       int    `json:"id"`               // unique contest id
	Name            string `json:"name"`             // contest name
	From            string `json:"from"`             // contest start, RFC 3339
	To              string `json:"to"`               // contest end, RFC 3339
	ProblemIds      []int  `json:"problem_ids"`      // allowed problems, sorted ascending
	UserIds         []int  `json:"user_ids"`         // allowed users, sorted ascending
	SubmissionLimit int    `json:"submission_limit"` // per-user submission cap, 0 = unlimited
}

// Submission is the immutable input of a job
type Submission struct {
	SourceCode string `json:"source_code"` // source code as submitted
	Language   string `json:"language"`    // language name from the toolchain catalog
	UserId     int    `json:"user_id"`     // submitting user id
	ContestId  int    `json:"contest_id"`  // contest id, 0 = global
	ProblemId  int    `json:"problem_id"`  // externally assigned problem id
}

// CaseResult is the verdict of compiling or running a single case.
// Case id 0 is the synthetic compile phase, ids 1..n correspond to problem cases in order.
type CaseResult struct {
	CaseId int    `json:"id"`     // 0 = compile phase, 1..n = problem case
	Result string `json:"result"` // case verdict
	Time   int64  `json:"time"`   // elapsed wall-clock, microseconds
	Memory int64  `json:"memory"` // reserved: memory usage, always 0
	Info   string `json:"info"`   // extra information, empty unless system error
}

// JobRow is db row of oj_job table: a finalized judged submission.
//
// ScoreVec holds per-case awarded scores, it is used by dynamic ranking
// re-scoring and is not part of the wire format.
type JobRow struct {
	JobId       int          `json:"id"`           // unique job id, dense and monotonic from 0
	CreatedTime string       `json:"created_time"` // RFC 3339 with millisecond precision, UTC
	UpdatedTime string       `json:"updated_time"` // RFC 3339 with millisecond precision, UTC
	Submission  Submission   `json:"submission"`   // immutable submission input
	State       string       `json:"state"`        // job state, Finished for all stored jobs
	Result      string       `json:"result"`       // aggregated verdict
	Score       float64      `json:"score"`        // total score
	Cases       []CaseResult `json:"cases"`        // compile phase result followed by case results
	ScoreVec    []float64    `json:"-"`            // per-case awarded scores, internal
}

// JobQuery is a set of optional conjunctive filters for job list selection
type JobQuery struct {
	UserId    *int    // filter by submission user id
	UserName  *string // filter by current name of submission user
	ContestId *int    // filter by submission contest id
	ProblemId *int    // filter by submission problem id
	Language  *string // filter by submission language
	From      *string // created_time >= from, RFC 3339
	To        *string // created_time <= to, RFC 3339
	State     *string // filter by job state
	Result    *string // filter by aggregated verdict
}
