package workers

import (
	"sync"
	"time"

	"pybbm/dao/mysql"
	"pybbm/logger"
	"pybbm/logic"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/viper"
)

// ReconcileForumCounters 周期性全量重算所有版块的计数
// 写路径的重算已经保证一致，这里是针对手工改库、历史脏数据的兜底
func ReconcileForumCounters(wg *sync.WaitGroup) {
	waitTime := time.Second * time.Duration(viper.GetInt64("service.counters.reconcile_interval"))
	poolSize := viper.GetInt("service.workers.pool_size")

	var iterWg sync.WaitGroup
	pool, _ := ants.NewPoolWithFunc(poolSize, func(i interface{}) {
		defer iterWg.Done()
		forumID, ok := i.(int64)
		if !ok {
			return
		}
		// 一个版块一个事务，单个失败不影响其它版块
		tx := mysql.GetDB().Begin()
		if err := logic.RecomputeForumCounters(tx, forumID); err != nil {
			tx.Rollback()
			logger.Errorf("workers:ReconcileForumCounters: forum_id: %d, reason: %v", forumID, err.Error())
			return
		}
		if err := tx.Commit().Error; err != nil {
			logger.Errorf("workers:ReconcileForumCounters: commit failed, forum_id: %d, reason: %v", forumID, err.Error())
		}
	})

	go func() {
		for {
			time.Sleep(waitTime)
			wg.Add(1)

			forumIDs, err := mysql.SelectForumIDs(nil)
			if !checkError(err, &waitTime, wg) {
				continue
			}

			for _, forumID := range forumIDs {
				iterWg.Add(1)
				pool.Invoke(forumID) // 添加到 go routine 池
			}
			iterWg.Wait()

			logger.Infof("workers:ReconcileForumCounters: Reconciled counters for %d forums", len(forumIDs))
			waitTime = time.Second * time.Duration(viper.GetInt64("service.counters.reconcile_interval"))
			wg.Done()
		}
	}()
}
