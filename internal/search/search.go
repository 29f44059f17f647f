package search

import (
	"strings"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"golang.org/x/text/cases"
)

// Filter returns the contacts whose name contains term, ignoring case, or whose phone contains
// term verbatim. An empty term matches every contact. The order of contacts is kept and the input
// is not modified.
func Filter(contacts []model.Contact, term string) []model.Contact {
	fold := cases.Fold()
	foldedTerm := fold.String(term)
	result := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(fold.String(c.Name), foldedTerm) || strings.Contains(c.Phone, term) {
			result = append(result, c)
		}
	}
	return result
}
