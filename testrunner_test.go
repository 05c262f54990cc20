package annotator

import (
	"testing"
	"time"
)

func TestLoadTestScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid", `{"steps":[{"action":"click","x":10,"y":20},{"action":"wait","frames":2}]}`, false},
		{"invalid json", `{"steps":`, true},
		{"no steps", `{"steps":[]}`, true},
		{"unknown action", `{"steps":[{"action":"screenshot"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadTestScript([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(r.steps) != 2 {
				t.Errorf("len(steps) = %d, want 2", len(r.steps))
			}
		})
	}
}

func TestTestRunnerClickSelectDelete(t *testing.T) {
	a, _ := newReady(t, 200, 200, 200, Config{})
	r, err := LoadTestScript([]byte(`{"steps":[
		{"action":"click","x":50,"y":50},
		{"action":"click","x":150,"y":150},
		{"action":"click","x":52,"y":50},
		{"action":"delete","id":1}
	]}`))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	a.SetTestRunner(r)

	for i := 0; i < 20 && !r.Done(); i++ {
		a.step(testDT)
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	pts := a.Points()
	if len(pts) != 1 || pts[0].ID != 2 {
		t.Errorf("Points() = %+v, want only point 2", pts)
	}
	if _, ok := a.Selected(); ok {
		t.Error("selection survived deleting the selected point")
	}
}

func TestTestRunnerResizeAndExport(t *testing.T) {
	saver := newMemSaver()
	a, _ := newReady(t, 400, 200, 400, Config{Saver: saver})
	r, err := LoadTestScript([]byte(`{"steps":[
		{"action":"click","x":100,"y":100},
		{"action":"resize","width":200},
		{"action":"wait","frames":2},
		{"action":"export"}
	]}`))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	a.SetTestRunner(r)

	deadline := time.Now().Add(5 * time.Second)
	for !r.Done() && time.Now().Before(deadline) {
		a.step(testDT)
		time.Sleep(time.Millisecond)
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	if !approxEqual(a.ScaleFactor(), 0.5, 1e-9) {
		t.Errorf("ScaleFactor() = %f, want 0.5", a.ScaleFactor())
	}
	results := r.Results()
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("Results() = %+v, want one successful export", results)
	}
	if c := rgbAt(results[0].Image, 107, 100); !isRed(c) {
		t.Errorf("export pixel = %v, want red marker at native coords", c)
	}
}

func TestTestRunnerWait(t *testing.T) {
	a, _ := newReady(t, 10, 10, 10, Config{})
	r, err := LoadTestScript([]byte(`{"steps":[{"action":"wait","frames":3}]}`))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	a.SetTestRunner(r)

	frames := 0
	for !r.Done() && frames < 10 {
		a.step(testDT)
		frames++
	}
	if frames != 4 {
		t.Errorf("wait 3 finished after %d frames, want 4", frames)
	}
}
