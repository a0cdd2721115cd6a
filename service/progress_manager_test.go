package service

import (
	"testing"

	"github.com/ludo-technologies/rscan/domain"
)

func TestNewProgressManagerDisabled(t *testing.T) {
	pm := NewProgressManager(false)
	if pm.IsInteractive() {
		t.Error("expected non-interactive progress manager when disabled")
	}

	var _ domain.ProgressManager = pm
}

func TestNoOpProgressManager(t *testing.T) {
	pm := &NoOpProgressManager{}

	if pm.IsInteractive() {
		t.Error("expected NoOpProgressManager.IsInteractive() to return false")
	}

	task := pm.StartTask("analyze", 10)
	if task == nil {
		t.Fatal("expected non-nil task from StartTask")
	}

	// All operations are no-ops and must not panic.
	task.Increment(1)
	task.Describe("working")
	task.Complete()
	pm.Close()
}

func TestProgressManagerInterfaces(t *testing.T) {
	var _ domain.ProgressManager = &ProgressManagerImpl{}
	var _ domain.TaskProgress = &TaskProgressImpl{}
	var _ domain.TaskProgress = &NoOpTaskProgress{}
}
