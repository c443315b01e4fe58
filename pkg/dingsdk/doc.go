// Package dingsdk is a client for the DingTalk open platform. It wraps the
// two credential exchanges (the user-consent authorization-code exchange for
// the app token, and the machine-to-machine client-credentials exchange for
// per-corp tokens) around the tokencache subsystem, and exposes the contact,
// organization and employee APIs that consume those tokens.
//
// Typical wiring:
//
//	rdb, err := redis.Open(env.RedisURL)
//	if err != nil { ... }
//	client, err := dingsdk.New(dingsdk.Config{
//		AppID:     env.AppID,
//		AppSecret: env.AppSecret,
//		Store:     redis.NewStore(rdb),
//	})
//	if err != nil { ... }
//
//	corp := client.Corp(corpID)
//	org, err := corp.Organization(ctx)
//
// The store is shared by all process instances, so a token refreshed here is
// visible to every other instance before its own cache entry expires.
package dingsdk
