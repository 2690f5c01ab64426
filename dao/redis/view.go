package redis

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// keys
// 规范：Key + KeyName + Type + (PF)前缀
const (
	KeyTopicViewStringPF = "pybbm:topic:view:" // param: topic_id, val: 未落库的浏览增量
)

// 浏览数先在 redis 累加，worker 周期性落库，避免每次浏览都写 mysql
func IncrTopicView(topicID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	key := KeyTopicViewStringPF + strconv.FormatInt(topicID, 10)
	cmd := rdb.Incr(ctx, key)
	return errors.Wrap(cmd.Err(), "redis:IncrTopicView")
}

func GetTopicViewDelta(topicID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	key := KeyTopicViewStringPF + strconv.FormatInt(topicID, 10)
	val, err := rdb.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, Nil) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "redis:GetTopicViewDelta")
	}
	return val, nil
}

// PopTopicViewDeltas 取出并清零所有待落库的浏览增量
func PopTopicViewDeltas() (map[int64]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	keys, err := rdb.Keys(ctx, KeyTopicViewStringPF+"*").Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis:PopTopicViewDeltas: Keys")
	}

	deltas := make(map[int64]int64, len(keys))
	for _, key := range keys {
		val, err := rdb.GetDel(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, Nil) {
				continue
			}
			return nil, errors.Wrap(err, "redis:PopTopicViewDeltas: GetDel")
		}
		topicID, err := strconv.ParseInt(strings.TrimPrefix(key, KeyTopicViewStringPF), 10, 64)
		if err != nil {
			continue // 非法 key，跳过
		}
		deltas[topicID] = val
	}
	return deltas, nil
}
