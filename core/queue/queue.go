package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// slotTTL bounds how long a fired repeat slot marker lives.
const slotTTL = 24 * time.Hour

// Queue is a Redis backed job queue with repeatable triggers and bounded retention.
//
// Layout under "catalog-sync:<name>:":
//
//	wait       list of queued jobs (LPUSH in, RPOPLPUSH out)
//	active     list of claimed jobs
//	completed  list of finished jobs, newest first, trimmed per job options
//	failed     list of failed jobs, newest first, trimmed per job options
//	repeat     hash kind -> Repeatable
//	slot:*     SET NX markers so each repeat occurrence fires once
//	lock:*     per-resource mutual exclusion
type Queue struct {
	rdb  *redis.Client
	name string
	now  func() time.Time
}

// NewClient creates a Redis client from config and verifies the connection.
func NewClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return client, nil
}

// New creates a queue named name on top of rdb.
func New(rdb *redis.Client, name string) *Queue {
	if name == "" {
		name = "default"
	}
	return &Queue{rdb: rdb, name: name, now: time.Now}
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

func (q *Queue) key(parts ...string) string {
	return "catalog-sync:" + q.name + ":" + strings.Join(parts, ":")
}

func (q *Queue) listKey(state State) string {
	switch state {
	case StateQueued:
		return q.key("wait")
	default:
		return q.key(string(state))
	}
}

// Enqueue adds a job of kind with payload. When opts.Repeat is set the call registers a
// repeatable trigger for kind instead; registering a kind twice keeps the first entry and
// the returned template reflects what is stored.
func (q *Queue) Enqueue(ctx context.Context, kind string, payload any, opts Options) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload for %s: %w", kind, err)
	}

	if opts.Repeat != nil {
		return q.addRepeatable(ctx, kind, data, opts)
	}

	job := &Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    data,
		Options:    opts,
		State:      StateQueued,
		EnqueuedAt: q.now().UTC(),
	}
	if err := q.push(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (q *Queue) push(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := q.rdb.LPush(ctx, q.listKey(StateQueued), raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue %s job: %w", job.Kind, err)
	}
	return nil
}

func (q *Queue) addRepeatable(ctx context.Context, kind string, payload json.RawMessage, opts Options) (*Job, error) {
	schedule, err := cron.ParseStandard(opts.Repeat.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid repeat pattern %q: %w", opts.Repeat.Pattern, err)
	}

	rep := Repeatable{
		Kind:    kind,
		Pattern: opts.Repeat.Pattern,
		Payload: payload,
		Options: Options{RemoveOnComplete: opts.RemoveOnComplete, RemoveOnFail: opts.RemoveOnFail},
		NextRun: schedule.Next(q.now()).UTC(),
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("failed to encode repeatable %s: %w", kind, err)
	}

	added, err := q.rdb.HSetNX(ctx, q.key("repeat"), kind, raw).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to register repeatable %s: %w", kind, err)
	}
	if !added {
		existing, err := q.repeatable(ctx, kind)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			rep = *existing
		}
	}

	return &Job{
		ID:         "repeat:" + kind,
		Kind:       kind,
		Payload:    rep.Payload,
		Options:    Options{RemoveOnComplete: rep.Options.RemoveOnComplete, RemoveOnFail: rep.Options.RemoveOnFail, Repeat: &Repeat{Pattern: rep.Pattern}},
		State:      StateScheduled,
		EnqueuedAt: rep.NextRun,
	}, nil
}

func (q *Queue) repeatable(ctx context.Context, kind string) (*Repeatable, error) {
	raw, err := q.rdb.HGet(ctx, q.key("repeat"), kind).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repeatable %s: %w", kind, err)
	}
	var rep Repeatable
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, fmt.Errorf("failed to decode repeatable %s: %w", kind, err)
	}
	return &rep, nil
}

// ListRepeatable returns the registered repeatables, filtered by kind when kind is not empty.
func (q *Queue) ListRepeatable(ctx context.Context, kind string) ([]Repeatable, error) {
	all, err := q.rdb.HGetAll(ctx, q.key("repeat")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list repeatables: %w", err)
	}

	reps := make([]Repeatable, 0, len(all))
	for field, raw := range all {
		if kind != "" && field != kind {
			continue
		}
		var rep Repeatable
		if err := json.Unmarshal([]byte(raw), &rep); err != nil {
			return nil, fmt.Errorf("failed to decode repeatable %s: %w", field, err)
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// RemoveRepeatable deletes the repeatable registered for kind.
func (q *Queue) RemoveRepeatable(ctx context.Context, kind string) error {
	if err := q.rdb.HDel(ctx, q.key("repeat"), kind).Err(); err != nil {
		return fmt.Errorf("failed to remove repeatable %s: %w", kind, err)
	}
	return nil
}

// FireDue queues one job for every repeatable whose next run is due and advances its
// schedule. Each occurrence is claimed with SET NX, so concurrent callers fire it once.
// It returns the number of jobs queued by this call.
func (q *Queue) FireDue(ctx context.Context) (int, error) {
	reps, err := q.ListRepeatable(ctx, "")
	if err != nil {
		return 0, err
	}

	now := q.now()
	fired := 0
	for _, rep := range reps {
		if rep.NextRun.After(now) {
			continue
		}

		slot := q.key("slot", rep.Kind, fmt.Sprintf("%d", rep.NextRun.Unix()))
		claimed, err := q.rdb.SetNX(ctx, slot, 1, slotTTL).Result()
		if err != nil {
			return fired, fmt.Errorf("failed to claim repeat slot for %s: %w", rep.Kind, err)
		}
		if claimed {
			job := &Job{
				ID:         uuid.NewString(),
				Kind:       rep.Kind,
				Payload:    rep.Payload,
				Options:    rep.Options,
				State:      StateQueued,
				RepeatKey:  rep.Kind,
				EnqueuedAt: now.UTC(),
			}
			if err := q.push(ctx, job); err != nil {
				return fired, err
			}
			fired++
		}

		schedule, err := cron.ParseStandard(rep.Pattern)
		if err != nil {
			return fired, fmt.Errorf("invalid repeat pattern %q: %w", rep.Pattern, err)
		}
		rep.NextRun = schedule.Next(now).UTC()
		raw, err := json.Marshal(rep)
		if err != nil {
			return fired, fmt.Errorf("failed to encode repeatable %s: %w", rep.Kind, err)
		}
		if err := q.rdb.HSet(ctx, q.key("repeat"), rep.Kind, raw).Err(); err != nil {
			return fired, fmt.Errorf("failed to advance repeatable %s: %w", rep.Kind, err)
		}
	}
	return fired, nil
}

// Claim moves the oldest queued job to the active list and returns it.
// It returns nil without error when the queue is empty.
func (q *Queue) Claim(ctx context.Context) (*Job, error) {
	raw, err := q.rdb.RPopLPush(ctx, q.listKey(StateQueued), q.listKey(StateActive)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// Undecodable entries would block the active list forever
		q.rdb.LRem(ctx, q.listKey(StateActive), 1, raw)
		return nil, fmt.Errorf("failed to decode claimed job: %w", err)
	}
	job.raw = raw

	started := q.now().UTC()
	job.State = StateActive
	job.StartedAt = &started
	if err := q.replaceActive(ctx, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (q *Queue) replaceActive(ctx context.Context, job *Job) error {
	updated, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.listKey(StateActive), 1, job.raw)
		pipe.LPush(ctx, q.listKey(StateActive), updated)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark job %s active: %w", job.ID, err)
	}
	job.raw = string(updated)
	return nil
}

// Complete moves an active job to the completed list.
func (q *Queue) Complete(ctx context.Context, job *Job) error {
	return q.finish(ctx, job, StateCompleted, nil, job.Options.RemoveOnComplete)
}

// Fail moves an active job to the failed list, recording cause.
func (q *Queue) Fail(ctx context.Context, job *Job, cause error) error {
	return q.finish(ctx, job, StateFailed, cause, job.Options.RemoveOnFail)
}

func (q *Queue) finish(ctx context.Context, job *Job, state State, cause error, keep int) error {
	finished := q.now().UTC()
	job.State = state
	job.FinishedAt = &finished
	if cause != nil {
		job.Error = cause.Error()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}

	target := q.listKey(state)
	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.listKey(StateActive), 1, job.raw)
		if keep > 0 {
			pipe.LPush(ctx, target, data)
			pipe.LTrim(ctx, target, 0, int64(keep-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark job %s %s: %w", job.ID, state, err)
	}
	job.raw = ""
	return nil
}

// Recent returns up to n jobs in state, newest first.
func (q *Queue) Recent(ctx context.Context, state State, n int) ([]*Job, error) {
	if n <= 0 {
		return []*Job{}, nil
	}
	raws, err := q.rdb.LRange(ctx, q.listKey(state), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s jobs: %w", state, err)
	}

	jobs := make([]*Job, 0, len(raws))
	for _, raw := range raws {
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return nil, fmt.Errorf("failed to decode %s job: %w", state, err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, nil
}

// Counts returns the number of jobs held in every list state.
func (q *Queue) Counts(ctx context.Context) (map[State]int64, error) {
	states := []State{StateQueued, StateActive, StateCompleted, StateFailed}
	cmds := make([]*redis.IntCmd, len(states))
	_, err := q.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, s := range states {
			cmds[i] = pipe.LLen(ctx, q.listKey(s))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	counts := make(map[State]int64, len(states))
	for i, s := range states {
		counts[s] = cmds[i].Val()
	}
	return counts, nil
}
