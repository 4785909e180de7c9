package blog

import _ "embed"

// faviconPNG はバイナリに埋め込むファビコン画像（PNG形式）。
// ストアにもIDプロバイダにも触れず、常にこのバイト列をそのまま返す。
//
//go:embed static/favicon.ico
var faviconPNG []byte
