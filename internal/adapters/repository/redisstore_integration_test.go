//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/okian/kickout/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	Convey("Given a redis store", t, func() {
		s, err := repository.NewRedisStore(ctx, url, "kickoutData:test")
		So(err, ShouldBeNil)
		So(s.Remove(ctx), ShouldBeNil)
		Reset(func() {
			_ = s.Remove(ctx)
			_ = s.Close()
		})

		storeContract(ctx, s)
	})
}
