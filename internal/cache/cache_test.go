// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New("test", 1*time.Minute)

	c.Set("key1", "value1")

	got, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit for key1")
	}
	if got != "value1" {
		t.Errorf("Get(key1) = %v, want value1", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New("test", 1*time.Minute)

	if _, ok := c.Get("absent"); ok {
		t.Error("expected cache miss for absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New("test", 1*time.Minute)

	c.SetWithTTL("ephemeral", 42, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("ephemeral"); ok {
		t.Error("expected expired entry to miss")
	}

	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New("test", 1*time.Minute)

	c.Set("key", "value")
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting a non-existent key must not panic.
	c.Delete("never-existed")
}

func TestCacheClear(t *testing.T) {
	c := New("test", 1*time.Minute)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	c.Clear()

	for i := 0; i < 5; i++ {
		if _, ok := c.Get(fmt.Sprintf("key%d", i)); ok {
			t.Errorf("expected miss for key%d after Clear", i)
		}
	}

	stats := c.GetStats()
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0 after Clear", stats.TotalKeys)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New("test", 1*time.Minute)

	if rate := c.HitRate(); rate != 0.0 {
		t.Errorf("empty cache HitRate = %f, want 0.0", rate)
	}

	c.Set("key", "value")
	c.Get("key")    // hit
	c.Get("absent") // miss

	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("HitRate = %f, want 50.0", rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New("test", 1*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%10)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		List string
		Page int
	}

	k1 := GenerateKey("rankings", params{List: "hardcover-fiction", Page: 1})
	k2 := GenerateKey("rankings", params{List: "hardcover-fiction", Page: 1})
	k3 := GenerateKey("rankings", params{List: "hardcover-fiction", Page: 2})

	if k1 != k2 {
		t.Error("identical parameters should produce identical keys")
	}
	if k1 == k3 {
		t.Error("different parameters should produce different keys")
	}
	if k1 == GenerateKey("search", params{List: "hardcover-fiction", Page: 1}) {
		t.Error("different methods should produce different keys")
	}
}
