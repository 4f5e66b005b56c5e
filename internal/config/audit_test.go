package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ragfw/ragfw/internal/audit"
)

func TestOpenAudit_Backends(t *testing.T) {
	off := true
	if l, _ := (FileConfig{Audit: &AuditConfig{Disabled: &off}}).OpenAudit(); l != (audit.Nop{}) {
		t.Fatalf("disabled audit should be Nop, got %T", l)
	}

	p := filepath.Join(t.TempDir(), "events.jsonl")
	l, closeFn := FileConfig{Audit: &AuditConfig{Path: &p}}.OpenAudit()
	closeFn()
	fs, ok := l.(*audit.FileSink)
	if !ok || fs.Path() != p {
		t.Fatalf("expected file sink at %s, got %T", p, l)
	}

	mr := miniredis.RunT(t)
	addr, key := mr.Addr(), "test:audit"
	var maxLen int64 = 2
	l, closeFn = FileConfig{Audit: &AuditConfig{RedisAddr: &addr, RedisKey: &key, MaxLen: &maxLen}}.OpenAudit()
	defer closeFn()
	if _, ok := l.(*audit.RedisSink); !ok {
		t.Fatalf("expected redis sink, got %T", l)
	}
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := l.Append(ctx, audit.Event{ID: id}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	evs, err := l.Tail(ctx, 0)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(evs) != 2 || evs[1].ID != "c" {
		t.Fatalf("unexpected events: %+v", evs)
	}
	if items, _ := mr.List(key); len(items) != 2 {
		t.Fatalf("expected key %s to hold 2 entries, got %d", key, len(items))
	}
}
