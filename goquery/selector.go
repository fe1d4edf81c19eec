package goquery

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/dumpchat"
)

// CheckSelectors compiles every selector of cfg and returns EINVALID naming
// the first one that fails.
func CheckSelectors(cfg *dumpchat.SiteConfig) error {
	selectors := cfg.Selectors()
	keys := make([]string, 0, len(selectors))
	for k := range selectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sel := strings.ReplaceAll(selectors[k], dumpchat.PathPlaceholder, "/")
		if _, err := cascadia.Compile(sel); err != nil {
			return dumpchat.Errorf(dumpchat.EINVALID, "invalid %s %q: %v", k, selectors[k], err)
		}
	}
	return nil
}
