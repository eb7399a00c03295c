package redis

import goredis "github.com/redis/go-redis/v9"

// KEYS[1] = documents hash, KEYS[2] = order zset, KEYS[3] = sequence
// ARGV[1] = id, ARGV[2] = document
const insertScript = `
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 0 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('ZADD', KEYS[2], seq, ARGV[1])
return 1
`

// KEYS[1] = documents hash
// ARGV[1] = id, ARGV[2] = document
const replaceScript = `
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return false
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return ARGV[2]
`

// KEYS[1] = documents hash, KEYS[2] = order zset
// ARGV[1] = id
const removeScript = `
local doc = redis.call('HGET', KEYS[1], ARGV[1])
if not doc then
	return false
end
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return doc
`

type bookScripts struct {
	insert  *goredis.Script
	replace *goredis.Script
	remove  *goredis.Script
}

func newBookScripts() *bookScripts {
	return &bookScripts{
		insert:  goredis.NewScript(insertScript),
		replace: goredis.NewScript(replaceScript),
		remove:  goredis.NewScript(removeScript),
	}
}
