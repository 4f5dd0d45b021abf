package main

import "github.com/mwg-labs/voicestudio/internal/ui"

var (
	keyword   = ui.Keyword
	paragraph = ui.Paragraph
)
