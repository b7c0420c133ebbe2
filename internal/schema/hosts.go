package schema

import (
	"context"
	"fmt"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/validate"
)

// CheckHosts resolves the host of every enabled link through h and warns
// about links whose name resolves to a private or otherwise non-public
// address. Resolution depends on the network, so the findings are warnings
// and never affect Valid.
func CheckHosts(ctx context.Context, c *config.Config, h *validate.HostChecker) Result {
	v := &collector{}
	if c == nil {
		return v.result()
	}
	for i, l := range c.Links {
		if !l.Enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			break
		}
		if !h.IsSafeExternalURL(ctx, l.URL) {
			v.warn(fmt.Sprintf("links.%d.url", i), CodeUnsafe,
				"host of %q does not resolve to a public address", l.URL)
		}
	}
	return v.result()
}
