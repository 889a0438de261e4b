package middleware

import (
	"context"

	"staybnb/internal/app/commands"
)

// ListingLocker marks commands whose dispatch must hold the per-listing
// lock end to end. The key is the listing the command mutates.
type ListingLocker interface {
	ListingLockKey() string
}

// ListingLock serializes commands that target the same listing. It must be
// chained outside Transaction: the lock has to stay held until the unit of
// work commits, otherwise a second create can read a pre-commit snapshot
// and double-book the listing.
func ListingLock(acquire func(key string) (release func())) CommandMiddleware {
	if acquire == nil {
		panic("middleware: lock acquire func required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			locker, ok := cmd.(ListingLocker)
			if !ok {
				return nextFn(ctx, cmd)
			}
			key := locker.ListingLockKey()
			if key == "" {
				return nextFn(ctx, cmd)
			}
			release := acquire(key)
			defer release()
			return nextFn(ctx, cmd)
		})
	}
}
