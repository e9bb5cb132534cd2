package domain

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// trailingTimestamp matches the timestamp tail a previous session
// appended to its output filename.
var trailingTimestamp = regexp.MustCompile(`_[0-9]{14}$`)

// OutputFileName derives the output filename for a session started
// from inputPath at the given time.
//
// The base name keeps its prefix, drops any timestamp appended by an
// earlier session, gains a "_perturbed" marker if it does not already
// carry one, and ends with the current timestamp. Feeding one
// session's output into the next therefore never stacks suffixes, and
// sessions run at different times never collide:
//
//	quoref_dev.json                    -> quoref_dev_perturbed_20260829093000.json
//	quoref_dev_perturbed_20260829093000.json -> quoref_dev_perturbed_20260829101500.json
func OutputFileName(inputPath string, now time.Time) string {
	base := filepath.Base(inputPath)
	prefix := strings.TrimSuffix(base, filepath.Ext(base))
	prefix = trailingTimestamp.ReplaceAllString(prefix, "")
	if !strings.Contains(prefix, "_perturbed") {
		prefix += "_perturbed"
	}
	return prefix + "_" + now.Format("20060102150405") + ".json"
}
