// Package store 提供 core.Store / core.KeyValueStore 的实现，
// 以及基于 KeyValueStore 的用户数据存储（问卷偏好、收藏）。
//
// 注意：接口定义在 core 包。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	users := store.NewUserStore(kv)
package store

import "github.com/rushteam/scentkit/core"

var (
	_ core.KeyValueStore = (*MemoryStore)(nil)
	_ core.KeyValueStore = (*RedisStore)(nil)
	_ core.UserStore     = (*UserStore)(nil)
)
