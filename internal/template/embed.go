package template

import (
	"embed"
	"io/fs"
)

//go:embed all:files
var embedded embed.FS

// Files returns the embedded project templates rooted at their target
// layout.
func Files() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return sub
}
