package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTTL(t *testing.T) {
	// terminal jobs stay readable for an hour; active ones refresh on each write
	assert.Equal(t, 3600, ttl(StatusCompleted))
	assert.Equal(t, 3600, ttl(StatusFailed))
	assert.Equal(t, 600, ttl(StatusPending))
	assert.Equal(t, 600, ttl(StatusProcessing))
}

func TestApplyResultByKind(t *testing.T) {
	var j Job

	applyResult(&j, GenerateResult{ProjectID: "p1", DesignIDs: []string{"d1", "d2", "d3"}})
	if assert.NotNil(t, j.Results.GenerateResult) {
		assert.Equal(t, "p1", j.Results.GenerateResult.ProjectID)
		assert.Len(t, j.Results.GenerateResult.DesignIDs, 3)
	}
	assert.Nil(t, j.Results.ScreenshotResult)
	assert.Nil(t, j.Results.ExportResult)

	applyResult(&j, &ScreenshotResult{DesignID: "d1", Path: "/data/screenshots/d1.png", PublicURL: "/files/screenshots/d1.png"})
	if assert.NotNil(t, j.Results.ScreenshotResult) {
		assert.Equal(t, "d1", j.Results.ScreenshotResult.DesignID)
	}
	// a new result replaces the whole payload, not just its own slot
	assert.Nil(t, j.Results.GenerateResult)

	applyResult(&j, ExportResult{DesignID: "d1", Format: "pdf", Path: "/data/exports/d1.pdf"})
	if assert.NotNil(t, j.Results.ExportResult) {
		assert.Equal(t, "pdf", j.Results.ExportResult.Format)
	}
	assert.Nil(t, j.Results.ScreenshotResult)
}

func TestApplyResultNilKeepsPrevious(t *testing.T) {
	j := Job{Results: JobResult{GenerateResult: &GenerateResult{ProjectID: "p1"}}}

	// status-only writes (SetProcessing, Fail) pass nil and must not wipe
	// results already stored for the job
	applyResult(&j, nil)
	if assert.NotNil(t, j.Results.GenerateResult) {
		assert.Equal(t, "p1", j.Results.GenerateResult.ProjectID)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "job:abc-123", key("abc-123"))
}
