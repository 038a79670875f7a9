// Package scripts embeds the Risor check scripts shipped with lookout.
// Each check walks the outline of one tree and calls report(start, end,
// message) for every problem it finds.
package scripts

import (
	"embed"
	"io/fs"
)

//go:embed checks/*.risor
var FS embed.FS

// Checks lists the embedded check scripts in name order.
func Checks() ([]string, error) {
	return fs.Glob(FS, "checks/*.risor")
}
