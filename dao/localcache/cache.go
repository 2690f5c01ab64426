package localcache

import (
	"github.com/bluele/gcache"
	"github.com/spf13/viper"
)

// 进程内 LRU，放低频变更的结构数据（目前只有首页的分类树）
// 结构变更的写入方负责主动失效对应的 key

var cache gcache.Cache

func InitLocalCache() {
	cache = gcache.New(viper.GetInt("localcache.size")).LRU().Build()
}

func GetLocalCache() gcache.Cache {
	return cache
}
