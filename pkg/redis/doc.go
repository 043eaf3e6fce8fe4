// Package redis provides Redis connection helpers for budgetd: URL
// based connect with retry, a healthcheck closure for the health
// endpoint, and a graceful-shutdown hook.
//
//	client, err := redis.Open(ctx, cfg.URL)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package redis
