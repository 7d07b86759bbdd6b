package header

import (
	"fmt"

	"coursedesk/modules/platform/routes"

	"github.com/google/uuid"
)

// Owner is the capability a mounted screen uses to write and release the
// header slot. It is minted by Store.Mount and compared by identity: two
// mounts of the same screen get different owners, and only the holder of the
// owner that wrote the slot may release it.
type Owner struct {
	screen routes.Name
	token  uuid.UUID
	gen    uint64
}

// NoOwner is the zero owner, used by automatically inferred descriptors.
var NoOwner Owner

// IsZero reports whether o is NoOwner
func (o Owner) IsZero() bool {
	return o.token == uuid.Nil
}

// Screen returns the screen this owner was minted for
func (o Owner) Screen() routes.Name {
	return o.screen
}

// Generation returns the mount generation. Later mounts have larger values.
func (o Owner) Generation() uint64 {
	return o.gen
}

func (o Owner) String() string {
	if o.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s#%d", o.screen, o.gen)
}

// supersedes reports whether o is a newer mount of the same screen as other
func (o Owner) supersedes(other Owner) bool {
	return o.screen == other.screen && o.gen > other.gen
}
