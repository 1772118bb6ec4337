package domain

// ContentEntry is one editable field of the static site.
type ContentEntry struct {
	Key   string
	Value string
}
