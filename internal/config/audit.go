package config

import (
	"github.com/ragfw/ragfw/internal/audit"
	"github.com/redis/go-redis/v9"
)

// OpenAudit picks Redis when an address is configured, the JSONL file
// otherwise. The returned func releases the backend.
func (fc FileConfig) OpenAudit() (audit.Log, func()) {
	ac := fc.Audit
	if ac != nil && ac.Disabled != nil && *ac.Disabled {
		return audit.Nop{}, func() {}
	}
	if ac != nil && ac.RedisAddr != nil && *ac.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *ac.RedisAddr})
		s := audit.NewRedisSink(client, deref(ac.RedisKey))
		s.MaxLen = deref(ac.MaxLen)
		return s, func() { _ = client.Close() }
	}
	return audit.NewFileSink(fc.AuditPath()), func() {}
}
