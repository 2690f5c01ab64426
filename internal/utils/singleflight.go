package utils

import (
	"context"
	"time"

	pybbm "pybbm/errors"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// SfDoWithTimeout 把并发的同 key 调用合并到一个航班上执行 fn
// interval 之后 forget，后来的调用方另起航班，避免一次失败扩散给所有人
func SfDoWithTimeout(sfGrp *singleflight.Group, key string, timeout, interval time.Duration, fn func() (any, error)) (v any, err error) {
	ch := sfGrp.DoChan(key, fn)

	go func() {
		time.Sleep(interval)
		sfGrp.Forget(key)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	select {
	case res := <-ch:
		return res.Val, errors.Wrap(res.Err, "utils:SfDoWithTimeout: fn")
	case <-ctx.Done():
		return nil, errors.Wrap(pybbm.ErrTimeout, "utils:SfDoWithTimeout: fn")
	}
}
