// Package assets embeds a handful of classic warriors, used as
// defaults by the command line tools and as fixtures in tests.
package assets

import _ "embed"

//go:embed imp.red
var Imp string

//go:embed dwarf.red
var Dwarf string

//go:embed mice.red
var Mice string
