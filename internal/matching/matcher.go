package matching

import "strings"

// Entry is one record of the image reference dataset: a canonical exercise
// name and the relative image path fragments published for it.
type Entry struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

// Result reports the outcome of an image lookup.
type Result struct {
	Found  bool     `json:"found"`
	Images []string `json:"images"`
}

// NoMatch is the degraded result returned whenever no usable entry exists.
var NoMatch = Result{Found: false, Images: nil}

// Match scans the catalog in order and returns the first entry whose
// normalized name contains the normalized query or is contained by it.
// Containment is deliberately symmetric so both overly-specific and
// overly-generic queries can match. Returns nil when nothing matches.
func Match(queryName string, catalog []Entry) *Entry {
	query := NormalizeName(queryName)
	if query == "" {
		return nil
	}
	for i := range catalog {
		name := NormalizeName(catalog[i].Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return &catalog[i]
		}
	}
	return nil
}

// Lookup resolves a query name against the catalog and expands matched image
// fragments to fully-qualified URLs under baseURL. A match without images
// counts as no match. Total over any input; never fails.
func Lookup(queryName string, catalog []Entry, baseURL string) Result {
	entry := Match(queryName, catalog)
	if entry == nil || len(entry.Images) == 0 {
		return NoMatch
	}

	urls := make([]string, 0, len(entry.Images))
	for _, fragment := range entry.Images {
		urls = append(urls, ExpandImageURL(baseURL, fragment))
	}
	return Result{Found: true, Images: urls}
}

// ExpandImageURL joins the dataset base URL with a relative image fragment
// using exactly one separator.
func ExpandImageURL(baseURL, fragment string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(fragment, "/")
}
