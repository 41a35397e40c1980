package annvis

// Class name to id mappings for the XML input, which does not carry its own category list.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"strconv"
	"strings"
)

// maxCatalogSize bounds the id range of a ClassMap, as every id in the range gets a catalog slot.
const maxCatalogSize = 1 << 16

// ClassMap maps class names to arbitrary integer ids. The ids need not start at zero or be
// contiguous, but they must be unique.
type ClassMap map[string]int

// ParseClassMap parses a list of name=id mappings, e.g. []string{"scratch=1", "bubble=2"}.
func ParseClassMap(mappings []string) (ClassMap, error) {
	m := make(ClassMap, len(mappings))
	for _, v := range mappings {
		a := strings.Split(v, "=")
		if len(a) != 2 {
			return nil, fmt.Errorf("invalid class mapping: %v", v)
		}

		name := strings.TrimSpace(a[0])
		id, err := strconv.Atoi(strings.TrimSpace(a[1]))
		if name == "" || err != nil {
			return nil, fmt.Errorf("invalid class mapping: %v", v)
		}
		if _, found := m[name]; found {
			return nil, fmt.Errorf("duplicate class name %q", name)
		}
		m[name] = id
	}

	return m, nil
}

// LoadClassMap reads a class map from a JSON object file, e.g. {"scratch": 1, "bubble": 2}.
func LoadClassMap(path string) (ClassMap, error) {
	enc, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m ClassMap
	if err := json.Unmarshal(enc, &m); err != nil {
		return nil, fmt.Errorf("failed to parse the class map from %q: %v", path, err)
	}

	return m, nil
}

// Normalize shifts all ids so that the smallest one becomes zero and returns the resulting
// name-to-index mapping along with the ClassCatalog it indexes into. If the smallest id is already
// zero the ids are used unchanged.
//
// The catalog has one entry per integer in [min, max]. Gaps in a non-contiguous mapping are filled
// with "class_<id>" so that every canonical index is in range.
func (m ClassMap) Normalize() (map[string]int, ClassCatalog, error) {
	if len(m) == 0 {
		return nil, nil, &PreconditionError{Reason: "empty class map"}
	}

	minID, maxID := math.MaxInt, math.MinInt
	for _, id := range m {
		if id < minID {
			minID = id
		}
		if id > maxID {
			maxID = id
		}
	}

	// The span is computed in uint64, as maxID-minID overflows int for ids of opposite sign.
	if uint64(maxID)-uint64(minID) >= maxCatalogSize {
		return nil, nil, &PreconditionError{
			Reason: fmt.Sprintf("class ids span [%d, %d], more than %d classes", minID, maxID,
				maxCatalogSize),
		}
	}

	indices := make(map[string]int, len(m))
	catalog := make(ClassCatalog, maxID-minID+1)
	for name, id := range m {
		i := id
		if minID != 0 {
			i = id - minID
		}
		if name == "" {
			return nil, nil, &PreconditionError{Reason: fmt.Sprintf("empty class name for id %d", id)}
		}
		if catalog[i] != "" {
			return nil, nil, &PreconditionError{
				Reason: fmt.Sprintf("class id %d is assigned to both %q and %q", id, catalog[i], name),
			}
		}
		catalog[i] = name
		indices[name] = i
	}

	for i, name := range catalog {
		if name == "" {
			catalog[i] = "class_" + strconv.Itoa(i+minID)
		}
	}

	return indices, catalog, nil
}
