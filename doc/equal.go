package doc

import "encoding/json"

// Equal reports structural equality of two documents via their canonical
// JSON form — the same representation used on disk, so two documents are
// equal exactly when they would serialize identically.
func Equal(a, b Document) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
