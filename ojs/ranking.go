// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"sort"

	"github.com/openoj/go/oj/config"
	"github.com/openoj/go/oj/db"
)

// scoring rules: which of a user's submissions counts for a problem
const (
	latestRule  = "latest"  // the latest submission by created time, default
	highestRule = "highest" // the highest score, ties kept at the earliest
)

// tie breakers: secondary ordering of users with equal totals
const (
	timeBreaker   = "submission_time"  // ascending latest submission time
	countBreaker  = "submission_count" // ascending number of submissions
	userIdBreaker = "user_id"          // no ties at all, every row is its own rank
)

// RankRow is one row of the rank list response
type RankRow struct {
	User            db.UserRow `json:"user"`             // user id and name
	Rank            int        `json:"rank"`             // 1-based rank, equal rows share the rank
	Scores          []float64  `json:"scores"`           // per-problem scores
	SubmissionCount int        `json:"submission_count"` // number of in-scope submissions
}

// problem slot of the user score matrix
type rankSlot struct {
	score float64 // counted score of the slot
	time  string  // created time of the counted submission, empty if no submission
}

// buildRankList derive the rank list from a job store snapshot.
//
// Jobs must be in job id order. If contest is nil then scope is global,
// else jobs are filtered by contest id, rows are filtered by contest users
// and scores projected to the contest problem order.
// Dynamic ranking problems are re-scored per job against the shortest
// accepted case times of the whole store before aggregation.
func buildRankList(
	cfg *config.JudgeConfig, users []db.UserRow, jobs []db.JobRow, contest *db.ContestRow, rule string, breaker string,
) []RankRow {

	nProb := len(cfg.Problems)

	// problem external id to catalog index
	probIdx := make(map[int]int, nProb)
	for k := range cfg.Problems {
		probIdx[cfg.Problems[k].Id] = k
	}
	userIdx := make(map[int]int, len(users))
	for k := range users {
		userIdx[users[k].UserId] = k
	}

	shortest := shortestCaseTimes(cfg, jobs)

	// aggregate user score matrix and submission counts
	mat := make([][]rankSlot, len(users))
	for k := range mat {
		mat[k] = make([]rankSlot, nProb)
	}
	count := make([]int, len(users))

	for j := range jobs {
		job := &jobs[j]

		if contest != nil && job.Submission.ContestId != contest.ContestId {
			continue // out of contest scope
		}
		uIdx, isU := userIdx[job.Submission.UserId]
		pIdx, isP := probIdx[job.Submission.ProblemId]
		if !isU || !isP {
			continue
		}
		count[uIdx]++

		score := rescoreJob(cfg, job, pIdx, shortest)
		slot := &mat[uIdx][pIdx]

		switch rule {
		case highestRule:
			// strictly greater only: ties keep the earliest, zero score never claims an empty slot
			if score > slot.score {
				slot.score = score
				slot.time = job.CreatedTime
			}
		default: // latest
			if slot.time == "" || job.CreatedTime > slot.time {
				slot.score = score
				slot.time = job.CreatedTime
			}
		}
	}

	// per-user totals and latest submission time across counted slots
	total := make([]float64, len(users))
	latest := make([]string, len(users))

	for u := range mat {
		for p := range mat[u] {
			total[u] += mat[u][p].score
			if t := mat[u][p].time; t != "" && t > latest[u] {
				latest[u] = t
			}
		}
	}

	// sort: descending total, tie breaker next, ascending user id is the stable base order
	order := make([]int, len(users))
	for k := range order {
		order[k] = k
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if total[a] != total[b] {
			return total[a] > total[b]
		}
		switch breaker {
		case countBreaker:
			return count[a] < count[b]
		case timeBreaker:
			// users without submissions sort last and are equal among themselves
			if latest[a] == latest[b] {
				return false
			}
			if latest[a] == "" {
				return false
			}
			if latest[b] == "" {
				return true
			}
			return latest[a] < latest[b]
		}
		return false // user_id and default: keep ascending user id order
	})

	// assign ranks walking the sorted order
	rows := make([]RankRow, 0, len(order))
	rank := 1

	for i, u := range order {

		isNewClass := i == 0
		if !isNewClass {
			prev := order[i-1]
			switch breaker {
			case countBreaker:
				isNewClass = total[u] != total[prev] || count[u] != count[prev]
			case timeBreaker:
				isNewClass = total[u] != total[prev] || latest[u] != latest[prev]
			case userIdBreaker:
				isNewClass = true
			default:
				isNewClass = total[u] != total[prev]
			}
		}
		if isNewClass {
			rank = i + 1
		}

		scores := make([]float64, nProb)
		for p := range mat[u] {
			scores[p] = mat[u][p].score
		}
		rows = append(rows, RankRow{
			User:            users[u],
			Rank:            rank,
			Scores:          scores,
			SubmissionCount: count[u],
		})
	}

	if contest == nil {
		return rows
	}

	// contest projection: drop users not in the contest, ranks unchanged,
	// project scores to the contest problem order
	cRows := make([]RankRow, 0, len(rows))

	for k := range rows {
		if !isIdIn(contest.UserIds, rows[k].User.UserId) {
			continue
		}
		scores := make([]float64, 0, len(contest.ProblemIds))
		for _, pId := range contest.ProblemIds {
			s := 0.0
			if pIdx, ok := probIdx[pId]; ok {
				s = rows[k].Scores[pIdx]
			}
			scores = append(scores, s)
		}
		rows[k].Scores = scores
		cRows = append(cRows, rows[k])
	}
	return cRows
}

// shortestCaseTimes return per dynamic ranking problem the minimum case run
// times across the entire job store. Scope is always global, it is never
// narrowed to the current contest, and every job of the problem contributes.
// Zero times are not counted: a killed case never becomes the minimum.
// Map key is problem external id, vector is indexed by case position.
func shortestCaseTimes(cfg *config.JudgeConfig, jobs []db.JobRow) map[int][]int64 {

	shortest := map[int][]int64{}

	for j := range jobs {
		job := &jobs[j]

		pIdx, ok := cfg.ProblemByExternalId(job.Submission.ProblemId)
		if !ok || cfg.Problems[pIdx].Type != config.DynamicRankingProblem {
			continue
		}

		sv := shortest[job.Submission.ProblemId]
		if sv == nil {
			sv = make([]int64, len(cfg.Problems[pIdx].Cases))
			shortest[job.Submission.ProblemId] = sv
		}
		for k := range sv {
			if k+1 >= len(job.Cases) {
				break
			}
			if t := job.Cases[k+1].Time; t > 0 && (sv[k] == 0 || t < sv[k]) {
				sv[k] = t
			}
		}
	}
	return shortest
}

// rescoreJob return the score of the job as counted by the rank list.
//
// For dynamic ranking problems with ratio r an accepted job scores
// sum of scoreVec[i] * ((1 - r) + r * shortest[i] / time[i]), a non-accepted
// job score is multiplied by r. Any other problem keeps the judged score.
func rescoreJob(cfg *config.JudgeConfig, job *db.JobRow, pIdx int, shortest map[int][]int64) float64 {

	prob := &cfg.Problems[pIdx]
	if prob.Type != config.DynamicRankingProblem || prob.Misc.DynamicRankingRatio == nil {
		return job.Score
	}
	ratio := *prob.Misc.DynamicRankingRatio

	if job.Result != db.AcceptedResult {
		return job.Score * ratio
	}

	sv := shortest[prob.Id]
	score := 0.0

	for k := 0; k < len(prob.Cases) && k < len(job.ScoreVec); k++ {

		if k+1 >= len(job.Cases) {
			break
		}
		t := job.Cases[k+1].Time

		if sv != nil && t > 0 && sv[k] > 0 {
			score += job.ScoreVec[k] * ((1 - ratio) + ratio*float64(sv[k])/float64(t))
		} else {
			score += job.ScoreVec[k]
		}
	}
	return score
}
