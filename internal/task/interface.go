package task

import "errors"

var (
	// ErrTaskNotFound is returned for an unknown task id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrDuplicateTask is returned when creating a task whose id already exists.
	ErrDuplicateTask = errors.New("task already exists")
)

// Store holds task records keyed by id. Implementations must be safe for
// concurrent use.
type Store interface {
	Create(t Task) error
	Get(id string) (Task, error)
	// Update applies fn to the stored record and returns the result.
	Update(id string, fn func(t *Task)) (Task, error)
	// Delete removes the record and returns it as it was.
	Delete(id string) (Task, error)
	List(limit int) []Task
}
