package history

import (
	"sync"
	"time"

	"github.com/imsarthakshrma/Lumora/internal/core/model"
)

// Interaction is one observed task/email exchange. Extraction is nil
// when the model produced nothing usable.
type Interaction struct {
	Timestamp  time.Time         `json:"timestamp"`
	Input      map[string]any    `json:"input"`
	Extraction *model.Extraction `json:"extraction,omitempty"`
}

// Log is a fixed-capacity ring buffer of recent interactions. Once full,
// each append evicts the oldest entry, keeping memory bounded over the
// process lifetime.
type Log struct {
	mu       sync.Mutex
	entries  []Interaction
	start    int
	size     int
	capacity int
}

func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		entries:  make([]Interaction, capacity),
		capacity: capacity,
	}
}

// Append records an interaction, evicting the oldest when full.
func (l *Log) Append(interaction Interaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := (l.start + l.size) % l.capacity
	l.entries[index] = interaction
	if l.size < l.capacity {
		l.size++
	} else {
		l.start = (l.start + 1) % l.capacity
	}
}

// Recent returns up to n interactions, oldest first, newest last.
func (l *Log) Recent(n int) []Interaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.size {
		n = l.size
	}
	if n <= 0 {
		return nil
	}

	out := make([]Interaction, 0, n)
	for i := l.size - n; i < l.size; i++ {
		out = append(out, l.entries[(l.start+i)%l.capacity])
	}
	return out
}

// Len returns the number of retained interactions.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
