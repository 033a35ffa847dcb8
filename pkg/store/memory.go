package store

import (
	"context"
	"sort"
	"sync"

	"github.com/asecurityteam/taskfull/pkg/domain"
)

// Memory is an in-process domain.TaskStore. Each operation is atomic with
// respect to a single record, matching the guarantees of the DynamoDB store.
type Memory struct {
	lock  sync.RWMutex
	tasks map[string]domain.Task
}

var _ domain.TaskStore = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[string]domain.Task)}
}

func (s *Memory) Put(_ context.Context, task domain.Task) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Memory) Get(_ context.Context, taskID string) (domain.Task, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.NotFoundError{ID: taskID}
	}
	return task, nil
}

// Scan returns every record ordered by TaskID.
func (s *Memory) Scan(_ context.Context) ([]domain.Task, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	tasks := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].TaskID < tasks[j].TaskID })
	return tasks, nil
}

func (s *Memory) Update(_ context.Context, taskID string, changes domain.TaskChanges) error {
	if len(changes) == 0 {
		return domain.ValidationError{Reason: "No updatable fields supplied"}
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return domain.NotFoundError{ID: taskID}
	}
	for name, value := range changes {
		switch name {
		case domain.AttributeTitle:
			task.Title = value
		case domain.AttributeStatus:
			task.Status = value
		case domain.AttributeDescription:
			task.Description = value
		}
	}
	s.tasks[taskID] = task
	return nil
}

func (s *Memory) Delete(_ context.Context, taskID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return domain.NotFoundError{ID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}
