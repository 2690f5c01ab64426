package workers

import (
	"sync"
	"time"

	"pybbm/dao/redis"
	"pybbm/logger"

	"github.com/pkg/errors"
)

// 检查错误，如果有错误：
//
// 1. 输出日志
// 2. 修改 waitTime 为较小值，尽快重试
func checkError(err error, waitTime *time.Duration, wg *sync.WaitGroup) bool {
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.ErrorWithStack(err)
		*waitTime = time.Second * 10 // 10 s 后再次尝试
		wg.Done()
		return false
	}
	return true
}
