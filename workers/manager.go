package workers

import (
	"sync"

	"github.com/spf13/viper"
)

var wg sync.WaitGroup

func InitWorkers() {
	PersistTopicViews(&wg)
	ReconcileForumCounters(&wg)
	if viper.GetBool("kafka.enable") {
		ConsumeNotify(&wg)
	}
}

func Wait() {
	wg.Wait()
}
