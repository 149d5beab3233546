package content

// Link is one navigation or footer entry. URL may be an internal path or
// an absolute URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Complete reports whether both label and URL are set. Editors may hold
// incomplete links; nothing here enforces completeness.
func (l Link) Complete() bool {
	return l.Label != "" && l.URL != ""
}

// Links is the list type stored under navbar and footer settings keys.
type Links = List[Link]
