package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the engine: the
// default stylesheet and the images the default locales reference. They
// are served under /public/ and copied into every build, where a file of
// the same name in the site's static directory takes precedence.
//
//go:embed embedded
var EmbeddedAssets embed.FS
