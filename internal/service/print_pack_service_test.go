package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/export"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/storage"
)

type recordingRenderer struct {
	sheets []export.CoverSheet
}

func (r *recordingRenderer) RenderCoverSheet(sheet export.CoverSheet) ([]byte, error) {
	r.sheets = append(r.sheets, sheet)
	return []byte("%PDF-1.3 " + sheet.Title), nil
}

// expiredSigner issues real tokens but reports every one as expired.
type expiredSigner struct {
	*storage.SignedURLSigner
}

func (expiredSigner) Parse(string) (*storage.DownloadGrant, error) {
	return nil, storage.ErrTokenExpired
}

func newPrintPackFixture(t *testing.T, signer downloadSigner) (*PrintPackService, *recordingRenderer) {
	t.Helper()
	tests := newExamTestRepoStub(
		models.Test{ID: "ready", TenantID: "school-a", BlueprintID: "bp-1", Title: "Physics final", WorkflowState: models.TestStateLocked, PrintingReady: true, IsConfidential: true, Version: 6},
		models.Test{ID: "unready", TenantID: "school-a", WorkflowState: models.TestStateLocked},
		models.Test{ID: "approved", TenantID: "school-a", WorkflowState: models.TestStateApproved},
		models.Test{ID: "printed", TenantID: "school-a", BlueprintID: "bp-1", Title: "Physics final", WorkflowState: models.TestStateCompleted, PrintedAt: &fixedNow, Version: 8},
		models.Test{ID: "never-printed", TenantID: "school-a", WorkflowState: models.TestStateCompleted},
	)
	blueprints := &blueprintStub{blueprints: map[string]models.Blueprint{
		"bp-1": {ID: "bp-1", TenantID: "school-a", Sections: models.BlueprintSections{{Name: "A", Questions: 20, Marks: 40}}},
	}}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	renderer := &recordingRenderer{}
	svc := NewPrintPackService(tests, blueprints, renderer, store, signer, "/api/v1/print-packs/download", nil)
	return svc, renderer
}

func TestPrintPackGenerateAndOpen(t *testing.T) {
	svc, renderer := newPrintPackFixture(t, storage.NewSignedURLSigner("secret", time.Minute))

	resp, err := svc.Generate(context.Background(), principal(models.RoleExamCommittee), "ready")
	require.NoError(t, err)
	assert.Equal(t, "ready", resp.TestID)
	assert.Contains(t, resp.DownloadURL, "/api/v1/print-packs/download?token=")
	require.Len(t, renderer.sheets, 1)
	assert.True(t, renderer.sheets[0].Confidential)
	assert.Len(t, renderer.sheets[0].Sections, 1)

	pack, err := svc.Open(context.Background(), resp.Token)
	require.NoError(t, err)
	defer pack.Content.Close()
	assert.Equal(t, "school-a", pack.TenantID)
	body, err := io.ReadAll(pack.Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 Physics final", string(body))
}

func TestPrintPackPreconditions(t *testing.T) {
	svc, renderer := newPrintPackFixture(t, storage.NewSignedURLSigner("secret", time.Minute))

	_, err := svc.Generate(context.Background(), principal(models.RoleExamCommittee), "approved")
	assert.True(t, errors.Is(err, appErrors.ErrNotLocked))

	_, err = svc.Generate(context.Background(), principal(models.RoleExamCommittee), "unready")
	assert.True(t, errors.Is(err, appErrors.ErrPreconditionFailed))

	_, err = svc.Generate(context.Background(), principal(models.RoleTeacher), "ready")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Empty(t, renderer.sheets)
}

func TestPrintPackReprintsCompletedPaper(t *testing.T) {
	svc, renderer := newPrintPackFixture(t, storage.NewSignedURLSigner("secret", time.Minute))

	resp, err := svc.Generate(context.Background(), principal(models.RoleExamCommittee), "printed")
	require.NoError(t, err)
	assert.Equal(t, "printed", resp.TestID)
	require.Len(t, renderer.sheets, 1)

	_, err = svc.Generate(context.Background(), principal(models.RoleExamCommittee), "never-printed")
	assert.True(t, errors.Is(err, appErrors.ErrPreconditionFailed))
}

func TestPrintPackOpenRejectsBadTokens(t *testing.T) {
	svc, _ := newPrintPackFixture(t, expiredSigner{storage.NewSignedURLSigner("secret", time.Minute)})

	resp, err := svc.Generate(context.Background(), principal(models.RoleAdmin), "ready")
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), resp.Token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Equal(t, "download link expired", appErrors.FromError(err).Message)

	_, err = svc.Open(context.Background(), "not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
