package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache[string, string]()

	_, ok := c.Get("docker-compose.yml")
	assert.False(t, ok)

	c.Set("docker-compose.yml", "/tmp/docker-compose.yml")
	v, ok := c.Get("docker-compose.yml")
	assert.True(t, ok)
	assert.Equal(t, "/tmp/docker-compose.yml", v)

	// Set overwrites.
	c.Set("docker-compose.yml", "/other/docker-compose.yml")
	v, _ = c.Get("docker-compose.yml")
	assert.Equal(t, "/other/docker-compose.yml", v)
}

func TestCacheLen(t *testing.T) {
	c := NewCache[string, string]()
	assert.Equal(t, 0, c.Len())
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")
	assert.Equal(t, 2, c.Len())
}

func TestCacheRange(t *testing.T) {
	c := NewCache[string, string]()
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")

	seen := map[string]string{}
	c.Range(func(k, v string) bool {
		seen[k] = v
		return true
	})
	assert.Len(t, seen, 3)

	count := 0
	c.Range(func(k, v string) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(n, n*2)
			c.Get(n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.Len())
}
