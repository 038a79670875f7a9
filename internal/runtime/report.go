package runtime

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/risor-io/risor/object"

	"github.com/jward/lookout/pos"
)

// Finding is one problem a check script reported against the tree.
type Finding struct {
	Check   string
	Span    pos.Span
	Message string
}

// findings collects what scripts report through the report global.
type findings struct {
	mu    sync.Mutex
	items []Finding
}

func (f *findings) add(item Finding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
}

// Findings returns everything reported since the Runtime was created, in
// report order.
func (r *Runtime) Findings() []Finding {
	r.findings.mu.Lock()
	defer r.findings.mu.Unlock()
	out := make([]Finding, len(r.findings.items))
	copy(out, r.findings.items)
	return out
}

// checkName derives the check name from a script label:
// "checks/unused.risor" → "unused".
func checkName(label string) string {
	return strings.TrimSuffix(path.Base(label), path.Ext(label))
}

// makeReportFn creates the "report" host function for the script label.
//
// report(start, end, message) → nil
func (r *Runtime) makeReportFn(label string) *object.Builtin {
	check := checkName(label)
	return object.NewBuiltin("report", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError("report", 3, len(args))
		}
		start, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("report: start: %v", err)
		}
		end, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("report: end: %v", err)
		}
		if end < start {
			return object.Errorf("report: span %d..%d is inverted", start, end)
		}
		msg, err := toString(args[2])
		if err != nil {
			return object.Errorf("report: message: %v", err)
		}
		r.findings.add(Finding{
			Check:   check,
			Span:    pos.NewSpan(pos.BytePos(start), pos.BytePos(end)),
			Message: msg,
		})
		r.logger.Debug("finding", "check", check, "start", start, "end", end, "message", msg)
		return object.Nil
	})
}
