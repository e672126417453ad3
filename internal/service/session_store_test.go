package service

import (
	"context"
	"errors"
	"smart_assessment_backend/internal/model"
	"smart_assessment_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)

	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	if err := store.Save(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Exam.Title != "Two questions" {
		t.Fatalf("snapshot = %+v", snap)
	}

	// 修改取出的快照不影响存储
	snap.Answers["q1"] = 1
	again, _ := store.Load(ctx, "s1")
	if len(again.Answers) != 0 {
		t.Fatalf("stored snapshot mutated: %v", again.Answers)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("Load after delete: %v", err)
	}
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	if err := store.Save(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expired session err = %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry not removed, len = %d", store.Len())
	}
}

func TestMemorySessionStoreRejectsEmptyID(t *testing.T) {
	store := NewMemorySessionStore(0)
	err := store.Save(context.Background(), NewExamSession("").Snapshot())
	if !util.IsValidationError(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestMemorySessionStoreClaimSubmit(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)

	if _, err := store.ClaimSubmit(ctx, "missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("claim on missing session err = %v", err)
	}

	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	if err := store.Save(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.ClaimSubmit(ctx, "s1")
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("claims won = %d, want 1", wins)
	}

	// 删除后标记一并清除
	store.Delete(ctx, "s1")
	store.Save(ctx, s.Snapshot())
	if ok, _ := store.ClaimSubmit(ctx, "s1"); !ok {
		t.Fatal("claim after delete should succeed")
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisSessionStore(rdb, ttl), mr
}

func TestRedisSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	s.SetOrigin(string(OriginInline))
	if err := s.Choose("q1", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists(redisSessionKeyPrefix + "s1") {
		t.Fatalf("keys = %v", mr.Keys())
	}
	if ttl := mr.TTL(redisSessionKeyPrefix + "s1"); ttl != time.Hour {
		t.Fatalf("ttl = %s", ttl)
	}

	snap, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if snap.ID != "s1" || snap.State != model.SessionSubmitted || snap.Origin != string(OriginInline) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Exam.Questions[0].CorrectIndex != 1 || snap.Exam.Questions[1].CorrectIndex != 0 {
		t.Fatalf("correct indexes lost: %+v", snap.Exam.Questions)
	}
	if snap.Answers["q1"] != 1 || len(snap.Answers) != 1 {
		t.Fatalf("answers = %v", snap.Answers)
	}
	want := model.Result{Score: 50, Correct: 1, Total: 2, Level: model.LevelAverage}
	if snap.Result == nil || *snap.Result != want {
		t.Fatalf("result = %+v", snap.Result)
	}

	// 恢复后的会话保持已交卷状态
	if _, err := RestoreSession(snap).Submit(); !errors.Is(err, util.ErrSessionSubmitted) {
		t.Fatalf("restored submit err = %v", err)
	}
}

func TestRedisSessionStoreMissingAndExpired(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Minute)

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	s := NewExamSession("s1")
	s.Start(twoQuestionExam())
	if err := store.Save(ctx, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Load(ctx, "s1"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expired err = %v", err)
	}

	if err := store.Save(ctx, NewExamSession("").Snapshot()); !util.IsValidationError(err) {
		t.Fatalf("empty id err = %v", err)
	}
}

func TestRedisSessionStoreClaimSubmit(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	first, err := store.ClaimSubmit(ctx, "s1")
	if err != nil || !first {
		t.Fatalf("first claim = %v, %v", first, err)
	}
	second, err := store.ClaimSubmit(ctx, "s1")
	if err != nil || second {
		t.Fatalf("second claim = %v, %v", second, err)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(redisSubmitKey("s1")) {
		t.Fatal("submit marker survived delete")
	}
}

func TestRedisSessionStoreCorruptSnapshot(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	mr.Set(redisSessionKeyPrefix+"bad", "{not json")

	if _, err := store.Load(context.Background(), "bad"); err == nil || errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("err = %v", err)
	}
}
