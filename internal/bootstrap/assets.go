package bootstrap

import (
	"embed"
	"fmt"
)

//go:embed assets
var assetFS embed.FS

// Asset returns an embedded payload by name. Names are compile-time
// constants, so a miss is a programming error.
func Asset(name string) []byte {
	data, err := assetFS.ReadFile("assets/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded asset %q missing: %v", name, err))
	}
	return data
}
