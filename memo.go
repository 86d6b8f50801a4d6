package twominute

import "sync"

// memo holds a value computed at most once. There is no setter: once
// resolved the value is fixed for the life of the owner.
type memo[T any] struct {
	once sync.Once
	v    T
}

func (m *memo[T]) get(compute func() T) T {
	m.once.Do(func() { m.v = compute() })
	return m.v
}
