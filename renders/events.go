package renders

import (
	"sync"

	"github.com/google/uuid"
)

type Event struct {
	JobID     string `json:"jobId"`
	ProjectID string `json:"projectId"`
	Status    Status `json:"status"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
}

type Queue struct {
	id uuid.UUID
	Ch chan Event
}

const queueDepth = 16

func newQueue() *Queue {
	return &Queue{
		id: uuid.Must(uuid.NewV7()),
		Ch: make(chan Event, queueDepth),
	}
}

var (
	listenersMu sync.Mutex
	listeners   = map[string][]*Queue{}
)

// Subscribe returns a queue of job events for one project.
func Subscribe(projectID string) *Queue {
	listenersMu.Lock()
	defer listenersMu.Unlock()
	q := newQueue()
	listeners[projectID] = append(listeners[projectID], q)
	return q
}

func Unsubscribe(projectID string, q *Queue) {
	listenersMu.Lock()
	defer listenersMu.Unlock()

	qs, ok := listeners[projectID]
	if !ok {
		return
	}
	newQs := []*Queue{}
	for _, oldQ := range qs {
		if oldQ != q {
			newQs = append(newQs, oldQ)
		}
	}
	if len(newQs) == 0 {
		delete(listeners, projectID)
	} else {
		listeners[projectID] = newQs
	}
}

// publish never blocks the worker; a slow listener misses events.
func publish(job *Job) {
	e := Event{
		JobID:     job.ID,
		ProjectID: job.ProjectID,
		Status:    job.Status,
		Progress:  job.Progress,
		Error:     job.ErrorMessage,
	}
	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, q := range listeners[job.ProjectID] {
		select {
		case q.Ch <- e:
		default:
			log.Debugf("listener %s is behind, dropping %s event for %s", q.id, e.Status, e.JobID)
		}
	}
}
