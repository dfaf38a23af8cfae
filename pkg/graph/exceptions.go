package graph

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/craftshop-erp/shopdata/pkg/entity"
)

// Exceptions is the hand-maintained list of entities retained regardless
// of reachability or date: documented special cases such as projects with
// multi-estimate change orders under investigation.
type Exceptions struct {
	keys map[string]struct{}
}

type exceptionsFile struct {
	Entries []struct {
		Kind string `yaml:"kind"`
		Name string `yaml:"name"`
		Note string `yaml:"note"`
	} `yaml:"entries"`
}

var exceptionLabels = map[entity.Kind]string{
	entity.KindBusiness:      "business",
	entity.KindContact:       "contact",
	entity.KindJob:           "job",
	entity.KindTask:          "task",
	entity.KindEstimate:      "estimate",
	entity.KindInvoice:       "invoice",
	entity.KindBill:          "bill",
	entity.KindPriceListItem: "price_list_item",
}

// LoadExceptions reads the YAML list. No path or a missing file means
// no exceptions.
func LoadExceptions(path string) (*Exceptions, error) {
	exc := &Exceptions{keys: make(map[string]struct{})}
	if path == "" {
		return exc, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return exc, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read exceptions %s", path)
	}

	var f exceptionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse exceptions %s", path)
	}
	for _, e := range f.Entries {
		exc.keys[excKey(e.Kind, e.Name)] = struct{}{}
	}
	return exc, nil
}

func excKey(kind, name string) string {
	return strings.ToLower(strings.TrimSpace(kind)) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

// Match reports whether an entity is on the list, by kind label and
// case-folded natural key.
func (e *Exceptions) Match(ent entity.Entity) bool {
	if len(e.keys) == 0 {
		return false
	}
	label, ok := exceptionLabels[ent.Ref().Kind]
	if !ok {
		return false
	}
	name, ok := entity.NaturalKeyOf(ent)
	if !ok {
		return false
	}
	_, hit := e.keys[excKey(label, name)]
	return hit
}
