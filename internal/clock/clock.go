// Package clock абстрагирует источник текущего времени.
//
// Scheduler получает Clock через конфигурацию, что позволяет
// детерминированно тестировать выборку due-постов без ожидания
// реального времени.
package clock

import (
	"sync"
	"time"
)

// Clock — источник текущего времени.
type Clock interface {
	Now() time.Time
}

// System возвращает Clock на основе time.Now.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Manual — управляемые часы для тестов.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual создаёт Manual с заданным начальным временем.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now возвращает текущее установленное время.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance сдвигает время вперёд на d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set устанавливает время в t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
