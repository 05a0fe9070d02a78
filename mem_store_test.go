package workerinject_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/txix-open/workerinject"
)

type memStore struct {
	mu     sync.Mutex
	jobs   map[string]workerinject.Job
	locked map[string]bool
	dead   []workerinject.Job
}

func newMemStore() *memStore {
	return &memStore{
		jobs:   make(map[string]workerinject.Job),
		locked: make(map[string]bool),
	}
}

func (s *memStore) BulkInsert(ctx context.Context, jobs []workerinject.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range jobs {
		if _, ok := s.jobs[job.Id]; ok {
			return workerinject.ErrJobAlreadyExist
		}
	}
	for _, job := range jobs {
		s.jobs[job.Id] = job
	}
	return nil
}

func (s *memStore) BulkDelete(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.jobs, id)
	}
	return nil
}

func (s *memStore) Acquire(ctx context.Context, queue string, f func(tx workerinject.Tx) error) error {
	job, ok := s.lockNext(queue)
	if !ok {
		return workerinject.ErrEmptyQueue
	}

	tx := &memTx{job: job}
	err := f(tx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locked, job.Id)
	if err != nil {
		return err
	}
	for _, op := range tx.ops {
		op(s)
	}
	return nil
}

func (s *memStore) lockNext(queue string) (workerinject.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Unix()
	due := make([]workerinject.Job, 0)
	for _, job := range s.jobs {
		if job.Queue == queue && job.NextRunAt <= now && !s.locked[job.Id] {
			due = append(due, job)
		}
	}
	if len(due) == 0 {
		return workerinject.Job{}, false
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].NextRunAt != due[j].NextRunAt {
			return due[i].NextRunAt < due[j].NextRunAt
		}
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	s.locked[due[0].Id] = true
	return due[0], true
}

func (s *memStore) job(id string) (workerinject.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *memStore) deadJob(id string) (workerinject.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.dead {
		if job.Id == id {
			return job, true
		}
	}
	return workerinject.Job{}, false
}

func (s *memStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

type memTx struct {
	job workerinject.Job
	ops []func(s *memStore)
}

func (t *memTx) Job() workerinject.Job {
	return t.job
}

func (t *memTx) Update(ctx context.Context, id string, attempt int32, lastError string, nextRunAt int64) error {
	t.ops = append(t.ops, func(s *memStore) {
		job := s.jobs[id]
		job.Attempt = attempt
		job.LastError = &lastError
		job.NextRunAt = nextRunAt
		s.jobs[id] = job
	})
	return nil
}

func (t *memTx) UpdateNextRun(ctx context.Context, id string, nextRunAt int64) error {
	t.ops = append(t.ops, func(s *memStore) {
		job := s.jobs[id]
		job.NextRunAt = nextRunAt
		s.jobs[id] = job
	})
	return nil
}

func (t *memTx) Delete(ctx context.Context, id string) error {
	t.ops = append(t.ops, func(s *memStore) {
		delete(s.jobs, id)
	})
	return nil
}

func (t *memTx) SaveInDlq(ctx context.Context, job workerinject.Job) error {
	t.ops = append(t.ops, func(s *memStore) {
		s.dead = append(s.dead, job)
	})
	return nil
}
