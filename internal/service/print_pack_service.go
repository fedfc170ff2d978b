package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-workflow-api/internal/access"
	"github.com/noah-isme/sma-exam-workflow-api/internal/dto"
	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/export"
	"github.com/noah-isme/sma-exam-workflow-api/pkg/storage"
)

// PaperRenderer turns a locked paper into printable bytes.
type PaperRenderer interface {
	RenderCoverSheet(sheet export.CoverSheet) ([]byte, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type downloadSigner interface {
	Generate(tenantID, resourceID, relPath string) (string, time.Time, error)
	Parse(token string) (*storage.DownloadGrant, error)
}

// PrintPack is an opened print pack ready for streaming.
type PrintPack struct {
	TenantID string
	TestID   string
	Filename string
	Content  io.ReadCloser
}

// PrintPackService renders and serves print packs for papers that are ready for printing.
type PrintPackService struct {
	tests       testReader
	blueprints  BlueprintResolver
	renderer    PaperRenderer
	store       fileStore
	signer      downloadSigner
	downloadURL string
	logger      *zap.Logger
	now         func() time.Time
}

// NewPrintPackService constructs the service. downloadURL is the public download route.
func NewPrintPackService(tests testReader, blueprints BlueprintResolver, renderer PaperRenderer, store fileStore, signer downloadSigner, downloadURL string, logger *zap.Logger) *PrintPackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintPackService{
		tests:       tests,
		blueprints:  blueprints,
		renderer:    renderer,
		store:       store,
		signer:      signer,
		downloadURL: downloadURL,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Generate renders the cover sheet and returns a signed, expiring download link.
func (s *PrintPackService) Generate(ctx context.Context, actor access.Principal, testID string) (*dto.PrintPackResponse, error) {
	if err := authorize(actor, access.ActionTestPrintPack); err != nil {
		return nil, err
	}
	test, err := s.tests.GetByID(ctx, actor.TenantID, testID)
	if err != nil {
		return nil, loadError(err, "test")
	}
	if test.WorkflowState != models.TestStateLocked && test.WorkflowState != models.TestStateCompleted {
		return nil, appErrors.WithDetails(appErrors.ErrNotLocked, map[string]interface{}{"workflowState": string(test.WorkflowState)})
	}
	printable := (test.WorkflowState == models.TestStateLocked && test.PrintingReady) ||
		(test.WorkflowState == models.TestStateCompleted && test.PrintedAt != nil)
	if !printable {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "paper is not marked ready for printing")
	}

	sheet := export.CoverSheet{
		Title:           test.Title,
		Subject:         test.Subject,
		Grade:           test.Grade,
		ExamDate:        test.ExamDate,
		DurationMinutes: test.DurationMinutes,
		TotalMarks:      test.TotalMarks,
		PaperFormat:     test.PaperFormat,
		Confidential:    test.IsConfidential,
		GeneratedBy:     actor.UserID,
		GeneratedAt:     s.now(),
	}
	if blueprint, err := s.blueprints.GetByID(ctx, actor.TenantID, test.BlueprintID); err == nil {
		for _, section := range blueprint.Sections {
			sheet.Sections = append(sheet.Sections, export.CoverSection{Name: section.Name, Questions: section.Questions, Marks: section.Marks})
		}
	} else {
		s.logger.Warn("print pack without blueprint sections", zap.String("test_id", test.ID), zap.Error(err))
	}

	data, err := s.renderer.RenderCoverSheet(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render print pack")
	}
	filename := fmt.Sprintf("%s/%s-v%d.pdf", actor.TenantID, test.ID, test.Version)
	if _, err := s.store.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store print pack")
	}
	token, expiresAt, err := s.signer.Generate(actor.TenantID, test.ID, filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign print pack link")
	}
	s.logger.Info("print pack generated", zap.String("tenant_id", actor.TenantID), zap.String("test_id", test.ID), zap.Int("bytes", len(data)))
	return &dto.PrintPackResponse{
		TestID:      test.ID,
		Token:       token,
		DownloadURL: s.downloadURL + "?token=" + url.QueryEscape(token),
		ExpiresAt:   expiresAt,
	}, nil
}

// Open resolves a download token. The token is the only credential; tenant scope comes from it.
func (s *PrintPackService) Open(ctx context.Context, token string) (*PrintPack, error) {
	grant, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	content, err := s.store.Open(grant.Path)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "print pack not found")
	}
	return &PrintPack{TenantID: grant.TenantID, TestID: grant.ResourceID, Filename: grant.ResourceID + ".pdf", Content: content}, nil
}
