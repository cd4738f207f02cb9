package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRedisClientWithoutAddr(t *testing.T) {
	if c := NewRedisClient("", "", 0); c != nil {
		t.Fatal("expected nil client for empty address")
	}
}

func TestAdviceCacheNilClientIsNoop(t *testing.T) {
	c := NewAdviceCache(nil, 0)
	c.Set(context.Background(), "advice:1", "x")
	if _, ok := c.Get(context.Background(), "advice:1"); ok {
		t.Fatal("nil client returned a hit")
	}
	if c.ttl != time.Hour {
		t.Fatalf("default ttl = %s", c.ttl)
	}
}

func TestAdviceCacheUnreachableServerMisses(t *testing.T) {
	// Grab a free port and close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	rdb := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()

	c := NewAdviceCache(rdb, time.Minute)
	c.Set(context.Background(), "advice:1", "x")
	if _, ok := c.Get(context.Background(), "advice:1"); ok {
		t.Fatal("unreachable server returned a hit")
	}
}
