package police

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainKeepsOrder(t *testing.T) {
	var q Queue[int]
	for i := 0; i < 5; i++ {
		q.Enqueue(i)
	}
	require.Equal(t, 5, q.Len())

	got := q.DrainInto(nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.DrainInto(nil))
}

func TestQueueReusesBuffersAcrossDrains(t *testing.T) {
	var q Queue[int]
	var dst []int
	for round := 0; round < 4; round++ {
		for i := 0; i < 3; i++ {
			q.Enqueue(round*10 + i)
		}
		dst = q.DrainInto(dst[:0])
		assert.Equal(t, []int{round * 10, round*10 + 1, round*10 + 2}, dst)
	}
}

// Every item enqueued concurrently with draining is seen exactly once.
func TestQueueConcurrentProducersExactlyOnce(t *testing.T) {
	var q Queue[int]
	const producers, per = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Enqueue(p*per + i)
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	seen := make(map[int]int, producers*per)
	var buf []int
	drain := func() {
		buf = q.DrainInto(buf[:0])
		for _, v := range buf {
			seen[v]++
		}
	}
	for {
		select {
		case <-done:
			drain()
			require.Len(t, seen, producers*per)
			for v, n := range seen {
				assert.Equal(t, 1, n, "item %d", v)
			}
			return
		default:
			drain()
		}
	}
}
