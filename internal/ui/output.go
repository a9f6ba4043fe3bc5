package ui

// KindTag renders the bracketed one-letter kind tag used by long
// repository listings, e.g. "[d] ".
func KindTag(tag string) string {
	return AccentBold.Render("["+tag+"]") + " "
}

// DirName renders a directory name in a repository listing.
func DirName(name string) string {
	return Bold.Render(name)
}

// ErrorLine formats a user-facing error message for the error stream.
func ErrorLine(msg string) string {
	return "ERROR: " + msg
}
