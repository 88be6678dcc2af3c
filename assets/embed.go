// Package assets embeds the default word lists so the server runs
// without any files configured.
package assets

import _ "embed"

// StartWords holds candidate root words, one per line.
//
//go:embed start.txt
var StartWords string

// DictionaryWords holds the default English dictionary, one word per line.
//
//go:embed dictionary.txt
var DictionaryWords string
