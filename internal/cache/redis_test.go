package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLockerWithoutRedisGrants(t *testing.T) {
	SetClient(nil)

	release, ok, err := Locker{}.TryLock(context.Background(), "edustaff:lock:test:2025-01", time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v; want granted", ok, err)
	}
	release()

	if err := Ping(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Errorf("Ping = %v, want ErrDisabled", err)
	}
}

// openTestRedis connects to TEST_REDIS_ADDR and disables Redis again on cleanup.
func openTestRedis(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("short")
	}
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	if err := Init(addr, os.Getenv("TEST_REDIS_PASSWORD"), 0); err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestLockerWithRedis(t *testing.T) {
	openTestRedis(t)
	ctx := context.Background()
	key := fmt.Sprintf(JobLockKeyFmt, "test-"+uuid.NewString(), "2025-06")
	t.Cleanup(func() { GetClient().Del(context.Background(), key) })

	var locker Locker
	releaseA, ok, err := locker.TryLock(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("first TryLock = %v, %v; want acquired", ok, err)
	}
	if ttl := GetClient().PTTL(ctx, key).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("lock ttl = %v, want within a minute", ttl)
	}

	if _, ok, err := locker.TryLock(ctx, key, time.Minute); err != nil || ok {
		t.Fatalf("TryLock while held = %v, %v; want refused", ok, err)
	}

	releaseA()
	if n := GetClient().Exists(ctx, key).Val(); n != 0 {
		t.Fatalf("key still present after release")
	}

	releaseB, ok, err := locker.TryLock(ctx, key, time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryLock after release = %v, %v; want acquired", ok, err)
	}

	// A late release from the previous holder must not free B's lock.
	releaseA()
	if n := GetClient().Exists(ctx, key).Val(); n != 1 {
		t.Fatal("stale release deleted another holder's lock")
	}
	if _, ok, _ := locker.TryLock(ctx, key, time.Minute); ok {
		t.Fatal("lock granted twice after a stale release")
	}

	releaseB()
	if n := GetClient().Exists(ctx, key).Val(); n != 0 {
		t.Errorf("key still present after holder released")
	}
}
