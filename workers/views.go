package workers

import (
	"sync"
	"time"

	"pybbm/dao/mysql"
	"pybbm/dao/redis"
	"pybbm/logger"

	"github.com/spf13/viper"
)

// PersistTopicViews 周期性地把 redis 里累积的浏览增量落到 mysql
// 业务体量越小，检查时间可以越长
func PersistTopicViews(wg *sync.WaitGroup) {
	waitTime := time.Second * time.Duration(viper.GetInt64("service.views.persistence_interval"))

	go func() {
		for {
			time.Sleep(waitTime)
			wg.Add(1)

			deltas, err := redis.PopTopicViewDeltas()
			if !checkError(err, &waitTime, wg) {
				continue
			}
			if len(deltas) == 0 {
				wg.Done()
				continue
			}

			failed := 0
			for topicID, delta := range deltas {
				if err := mysql.IncrTopicViews(nil, topicID, int(delta)); err != nil {
					// 增量已经从 redis 弹出，丢失的只是浏览数，可接受
					logger.Errorf("workers:PersistTopicViews: IncrTopicViews failed, topic_id: %d, reason: %v", topicID, err.Error())
					failed++
				}
			}

			logger.Infof("workers:PersistTopicViews: Persisted view deltas for %d topics (%d failed)", len(deltas), failed)
			waitTime = time.Second * time.Duration(viper.GetInt64("service.views.persistence_interval"))
			wg.Done()
		}
	}()
}
