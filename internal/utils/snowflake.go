package utils

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/viper"
)

var node *snowflake.Node

func InitSnowflake() {
	st, err := time.Parse("2006-01-02", viper.GetString("server.start_time"))
	if err != nil {
		panic(err.Error())
	}

	snowflake.Epoch = st.UnixNano() / 1000000
	node, err = snowflake.NewNode(viper.GetInt64("server.machine_id"))
	if err != nil {
		panic(err)
	}
}

// 同一毫秒内生成的 ID 也保持单调递增，因此 (created, id) 排序里 id 可以作为可靠的平局决胜
func GenSnowflakeID() int64 {
	return node.Generate().Int64()
}
