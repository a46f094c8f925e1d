package errors

import "github.com/fatih/color"

var (
	errColorizer   = color.New(color.FgRed, color.Bold)
	warnColorizer  = color.New(color.FgYellow, color.Bold)
	caretColorizer = color.New(color.FgRed)
)

func errColor(s string) string   { return errColorizer.Sprint(s) }
func warnColor(s string) string  { return warnColorizer.Sprint(s) }
func caretColor(s string) string { return caretColorizer.Sprint(s) }
