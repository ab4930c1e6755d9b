package redis

import (
	"context"
	"encoding/binary"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/go-article-service/domain"
)

const (
	KeyArticleBloom = "bloom:article:ids"

	// bloomHashes k 个哈希位置
	bloomHashes = 4
)

// redisBloomRepo 布隆过滤器, 位数组存放在一个 redis string 里
type redisBloomRepo struct {
	client  *redis.Client
	key     string
	bitSize uint64
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

func NewRedisBloomRepo(client *redis.Client, bitSize uint64) *redisBloomRepo {
	if bitSize == 0 {
		bitSize = 1
	}
	return &redisBloomRepo{
		client:  client,
		key:     KeyArticleBloom,
		bitSize: bitSize,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id string) error {
	return r.BulkAdd(ctx, []string{id})
}

// Exists false 表示一定不存在; true 可能误判
func (r *redisBloomRepo) Exists(ctx context.Context, id string) (bool, error) {
	offsets := r.offsets(id)
	cmds := make([]*redis.IntCmd, len(offsets))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, off := range offsets {
			cmds[i] = pipe.GetBit(ctx, r.key, int64(off))
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			for _, off := range r.offsets(id) {
				pipe.SetBit(ctx, r.key, int64(off), 1)
			}
		}
		return nil
	})
	return err
}

// offsets 双重哈希: g_i(x) = h1(x) + i*h2(x) mod m
func (r *redisBloomRepo) offsets(id string) []uint64 {
	data := []byte(id)

	f := fnv.New64a()
	_, _ = f.Write(data)
	h1 := f.Sum64()

	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], h1)
	h2 := uint64(crc32.Update(crc32.ChecksumIEEE(data), crc32.IEEETable, seed[:])) | 1

	res := make([]uint64, bloomHashes)
	for i := range res {
		res[i] = (h1 + uint64(i)*h2) % r.bitSize
	}
	return res
}
