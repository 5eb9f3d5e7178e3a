package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dreamdex/internal/db"
)

// Incr pipelines HINCRBY / ZINCRBY commands in a single DoMulti round-trip.
func (s *Store) Incr(ctx context.Context, ops []db.CounterOp) error {
	if len(ops) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(ops))
	for i, op := range ops {
		switch op.Kind {
		case db.CounterHash:
			cmds[i] = s.b().Hincrby().Key(op.Key).Field(op.Member).Increment(op.Delta).Build()
		case db.CounterSortedSet:
			cmds[i] = s.b().Zincrby().Key(op.Key).Increment(float64(op.Delta)).Member(op.Member).Build()
		default:
			return fmt.Errorf("unknown counter kind %d", op.Kind)
		}
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: counterOp(ops[i].Kind), Err: fmt.Errorf("key %s: %w", ops[i].Key, err)}
		}
	}
	return nil
}

// Expire sets TTL on a key. When nx=true, sets TTL only if the key has no expiry yet (EXPIRE NX).
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error {
	var cmd rueidis.Completed
	if nx {
		cmd = s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Nx().Build()
	} else {
		cmd = s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build()
	}
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpExpire, Err: err}
	}
	return nil
}

// ZTop returns the n highest scored members via ZREVRANGE WITHSCORES.
func (s *Store) ZTop(ctx context.Context, key string, n int) ([]db.ScoredMember, error) {
	if n <= 0 {
		return nil, nil
	}

	cmd := s.b().Arbitrary("ZREVRANGE").Keys(key).Args("0", strconv.Itoa(n-1), "WITHSCORES").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}

	return parseScoredMembers(raw)
}

// parseScoredMembers accepts both the RESP2 flat form [m1, s1, m2, s2]
// and the RESP3 nested form [[m1, s1], [m2, s2]].
func parseScoredMembers(raw []rueidis.RedisMessage) ([]db.ScoredMember, error) {
	out := make([]db.ScoredMember, 0, len(raw)/2)

	if len(raw) > 0 && raw[0].IsArray() {
		for _, pair := range raw {
			kv, err := pair.ToArray()
			if err != nil || len(kv) != 2 {
				return nil, fmt.Errorf("parse scored member: unexpected shape")
			}
			m, err := scoredMember(kv[0], kv[1])
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	}

	for i := 0; i+1 < len(raw); i += 2 {
		m, err := scoredMember(raw[i], raw[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func scoredMember(member, score rueidis.RedisMessage) (db.ScoredMember, error) {
	name, err := member.ToString()
	if err != nil {
		return db.ScoredMember{}, fmt.Errorf("parse member: %w", err)
	}
	f, err := score.AsFloat64()
	if err != nil {
		return db.ScoredMember{}, fmt.Errorf("parse score for %s: %w", name, err)
	}
	return db.ScoredMember{Member: name, Score: f}, nil
}

func counterOp(k db.CounterKind) string {
	if k == db.CounterSortedSet {
		return db.OpZIncrBy
	}
	return db.OpHIncrBy
}
