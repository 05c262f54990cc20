package annotator

import (
	"context"
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	ID     int     `json:"id,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "move": true, "delete": true, "select": true,
	"resize": true, "export": true, "report": true, "wait": true,
}

// TestRunner sequences injected input, edits and exports across frames for
// automated testing. Attach to an Annotator via SetTestRunner.
//
// Script actions:
//
//	{"action": "click", "x": 120, "y": 80}   press and release at screen coords
//	{"action": "move", "x": 120, "y": 80}    hover sample
//	{"action": "select", "id": 2}
//	{"action": "delete", "id": 2}
//	{"action": "resize", "width": 400}       set a Frame container's width
//	{"action": "export"}                      PNG export
//	{"action": "report"}                      PDF export
//	{"action": "wait", "frames": 10}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool

	pending []<-chan ExportResult
	results []ExportResult
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner. Its step method runs from Update
// before input processing each frame, once the image has loaded.
func (a *Annotator) SetTestRunner(runner *TestRunner) {
	a.testRunner = runner
}

// Done reports whether every step ran, all injected input drained and all
// exports finished.
func (r *TestRunner) Done() bool {
	return r.done
}

// Results returns the export results collected so far, in completion order.
func (r *TestRunner) Results() []ExportResult {
	return r.results
}

// collect moves finished exports into results without blocking.
func (r *TestRunner) collect() {
	kept := r.pending[:0]
	for _, ch := range r.pending {
		select {
		case res := <-ch:
			r.results = append(r.results, res)
		default:
			kept = append(kept, ch)
		}
	}
	r.pending = kept
}

// step advances the runner by one frame.
func (r *TestRunner) step(a *Annotator) {
	r.collect()
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(a.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = len(r.pending) == 0
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		a.InjectClick(st.X, st.Y)
	case "move":
		a.InjectMove(st.X, st.Y)
	case "select":
		a.SelectPoint(st.ID)
	case "delete":
		a.DeletePoint(st.ID)
	case "resize":
		if f, ok := a.container.(interface{ SetWidth(float64) }); ok && st.Width > 0 {
			f.SetWidth(st.Width)
		}
		a.Resize()
	case "export":
		r.pending = append(r.pending, a.Export(context.Background()))
	case "report":
		r.pending = append(r.pending, a.ExportReport(context.Background()))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.injectQueue) == 0 && len(r.pending) == 0 {
		r.done = true
	}
}
