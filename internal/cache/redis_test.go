package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(client), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := setupRedisCache(t)
	defer c.Close()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := c.Set("k", payload{Name: "a", Count: 3}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got payload
	if err := c.Get("k", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "a" || got.Count != 3 {
		t.Errorf("expected value roundtrip, got %+v", got)
	}
}

func TestRedisCache_MissIsErrCacheMiss(t *testing.T) {
	c, _ := setupRedisCache(t)
	defer c.Close()

	var got string
	if err := c.Get("absent", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupRedisCache(t)
	defer c.Close()

	if err := c.Set("short", "v", time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var got string
	if err := c.Get("short", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected expired key to miss, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, _ := setupRedisCache(t)
	defer c.Close()

	keys := []string{"tasks:alice:list:all", "tasks:alice:id:1", "tasks:bob:list:all"}
	for _, k := range keys {
		if err := c.Set(k, "v", time.Minute); err != nil {
			t.Fatalf("set %q failed: %v", k, err)
		}
	}

	if err := c.DeletePattern("tasks:alice:*"); err != nil {
		t.Fatalf("delete pattern failed: %v", err)
	}

	for _, k := range []string{"tasks:alice:list:all", "tasks:alice:id:1"} {
		if exists, _ := c.Exists(k); exists {
			t.Errorf("expected %q removed by pattern", k)
		}
	}
	if exists, _ := c.Exists("tasks:bob:list:all"); !exists {
		t.Error("expected other owner's key untouched")
	}
}

func TestRedisCache_HealthAfterServerGone(t *testing.T) {
	c, mr := setupRedisCache(t)
	defer c.Close()

	if err := c.Health(); err != nil {
		t.Fatalf("expected healthy cache, got %v", err)
	}

	mr.Close()
	if err := c.Health(); err == nil {
		t.Error("expected health check to fail after server shutdown")
	}
}
