// Package emit serializes the surviving entity set to the loader's
// fixture format: one JSON array of {model, pk, fields} records, the
// base dataset passed through verbatim at the front, then every kept
// entity in creation order. The write is atomic; a failed run leaves no
// partial output behind.
package emit

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/craftshop-erp/shopdata/pkg/basedata"
	"github.com/craftshop-erp/shopdata/pkg/entity"
	"github.com/craftshop-erp/shopdata/pkg/graph"
)

type fixture struct {
	Model  string        `json:"model"`
	PK     int           `json:"pk"`
	Fields entity.Entity `json:"fields"`
}

// Write renders the base records plus the kept entities to path.
func Write(path string, base *basedata.Base, a *entity.Arena, rt *graph.Retention, log *logrus.Logger) error {
	records := make([]any, 0, len(base.Records)+a.Len())
	for _, raw := range base.Records {
		records = append(records, raw)
	}

	emitted := 0
	for _, ent := range a.InOrder() {
		ref := ent.Ref()
		if !rt.Kept(ref) {
			continue
		}
		records = append(records, fixture{
			Model:  ref.Kind.Model(),
			PK:     ref.ID,
			Fields: ent,
		})
		emitted++
	}

	if err := writeAtomic(path, records); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":     path,
		"base":     len(base.Records),
		"entities": emitted,
	}).Info("wrote output")
	return nil
}

func writeAtomic(path string, records []any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shopdata-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp output")
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(err, "encode output")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp output")
	}
	name := tmp.Name()
	tmp = nil
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return errors.Wrapf(err, "rename output to %s", path)
	}
	return nil
}
