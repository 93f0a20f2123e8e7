package table

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	log "github.com/sirupsen/logrus"
)

// Persist writes applied row changes into b: new targets go to the target
// language file under the row's old key, then changed keys are renamed in
// every file of b. The placeholder for missing translations is never
// written.
func Persist(b *bundle.Bundle, targetLang string, changes []RowChange) (*keys.Result, error) {
	res := &keys.Result{Name: fmt.Sprintf("import into %s", b.BaseName)}
	if len(changes) == 0 {
		return res, nil
	}

	target := b.Sibling(targetLang)
	for _, c := range changes {
		if !c.TargetChanged() || c.NewTarget == TranslationNeeded {
			continue
		}
		if target == nil {
			return res, fmt.Errorf("%w: no %s file in bundle %s", bundle.ErrNotFound, targetLang, b.BaseName)
		}
		if err := keys.Update(target, c.OldKey, c.NewTarget); err != nil {
			log.WithField("file", target.Path()).Errorf("update %s: %s", c.OldKey, err)
			res.Failures = append(res.Failures, keys.Failure{File: target.Path(), Err: err})
			continue
		}
		res.Applied++
	}

	for _, c := range changes {
		if !c.KeyChanged() {
			continue
		}
		r := keys.Rename(b, c.OldKey, c.NewKey)
		res.Applied += r.Applied
		res.Failures = append(res.Failures, r.Failures...)
	}
	return res, nil
}
