package ports

import (
	"context"

	"depfresh/internal/types"
)

// VersionSource fetches the latest published version of a package from
// its ecosystem's registry.
type VersionSource interface {
	Latest(ctx context.Context, eco types.Ecosystem, name string) (string, error)
}
