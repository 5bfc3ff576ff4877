package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key layout:
//
//	set: cb:mm:pool:{tableSize}          -> Set(playerID,...)
//	kv : cb:mm:player:{playerID}         -> tableSize, so cancel can find the queue
//	kv : cb:mm:room:{roomID}             -> room json
//	kv : cb:mm:playerRoom:{playerID}     -> roomID while the player is seated
func poolKey(tableSize int) string {
	return fmt.Sprintf("cb:mm:pool:%d", tableSize)
}
func playerKey(id string) string {
	return "cb:mm:player:" + id
}
func roomKey(id string) string {
	return "cb:mm:room:" + id
}
func playerRoomKey(id string) string {
	return "cb:mm:playerRoom:" + id
}

// removeScript drops the player's queue marker and membership; SREM on the
// last member removes the set itself.
var removeScript = redis.NewScript(`
	redis.call("DEL", KEYS[1])
	redis.call("SREM", KEYS[2], ARGV[1])
	return 1
`)

func (r *redisRepo) Enqueue(ctx context.Context, tableSize int, playerID string, ttlSeconds int) error {
	// leave any other queue first
	if err := r.Remove(ctx, playerID); err != nil {
		return err
	}
	p := r.rdb.TxPipeline()
	p.SAdd(ctx, poolKey(tableSize), playerID)
	p.Set(ctx, playerKey(playerID), tableSize, time.Duration(ttlSeconds)*time.Second)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) PopNRandom(ctx context.Context, tableSize int, n int) ([]string, error) {
	// SPOP with a count pops atomically
	res, err := r.rdb.SPopN(ctx, poolKey(tableSize), int64(n)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) > 0 {
		p := r.rdb.Pipeline()
		for _, id := range res {
			p.Del(ctx, playerKey(id))
		}
		if _, err := p.Exec(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *redisRepo) Requeue(ctx context.Context, tableSize int, playerIDs []string, ttlSeconds int) error {
	if len(playerIDs) == 0 {
		return nil
	}
	p := r.rdb.TxPipeline()
	for _, id := range playerIDs {
		p.SAdd(ctx, poolKey(tableSize), id)
		p.Set(ctx, playerKey(id), tableSize, time.Duration(ttlSeconds)*time.Second)
	}
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) Remove(ctx context.Context, playerID string) error {
	v, err := r.rdb.Get(ctx, playerKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	size, err := strconv.Atoi(v)
	if err != nil {
		return r.rdb.Del(ctx, playerKey(playerID)).Err()
	}
	return removeScript.Run(ctx, r.rdb, []string{playerKey(playerID), poolKey(size)}, playerID).Err()
}

func (r *redisRepo) Count(ctx context.Context, tableSize int) (int64, error) {
	return r.rdb.SCard(ctx, poolKey(tableSize)).Result()
}

func (r *redisRepo) SaveRoom(ctx context.Context, room *Room, ttlSeconds int) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	p := r.rdb.TxPipeline()
	p.Set(ctx, roomKey(room.ID), data, ttl)
	for _, id := range room.Players {
		p.Set(ctx, playerRoomKey(id), room.ID, ttl)
	}
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) GetPlayerRoom(ctx context.Context, playerID string) (string, error) {
	val, err := r.rdb.Get(ctx, playerRoomKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *redisRepo) ReleasePlayer(ctx context.Context, playerID string) error {
	return r.rdb.Del(ctx, playerRoomKey(playerID)).Err()
}
