package components

// PageMeta feeds the <head> of every page.
type PageMeta struct {
	Title       string
	Description string
	// CanonicalURL is absolute; empty omits the link.
	CanonicalURL string
}

// Option is one entry of a <select>.
type Option struct {
	Value string
	Label string
}
