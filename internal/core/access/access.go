// Package access decides whether a caller may act on a resource owned by
// another user.
package access

import "github.com/vncsmyrnk/carmarket/internal/core/domain"

// CanMutate reports whether who may modify or privately read a resource
// owned by ownerID. Callers must confirm the resource exists first so that a
// missing row reports not-found rather than forbidden.
func CanMutate(ownerID int64, who domain.Identity) bool {
	return who.UserID == ownerID || who.IsAdmin()
}
