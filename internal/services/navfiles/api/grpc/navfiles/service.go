// Package navfiles implements the navfiles.v1 gRPC service.
package navfiles

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	navfilesv1 "github.com/louisbranch/navfiles/api/navfiles/v1"
	apperrors "github.com/louisbranch/navfiles/internal/platform/errors"
	"github.com/louisbranch/navfiles/internal/platform/grpc/pagination"
	"github.com/louisbranch/navfiles/internal/services/navfiles/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultListMapRevisionsPageSize = 10
	maxListMapRevisionsPageSize     = 50
)

// Service exposes navfiles.v1 gRPC operations.
type Service struct {
	navfilesv1.UnimplementedNavigationFilesServiceServer
	maps      storage.MapStore
	revisions storage.RevisionStore
	log       *logrus.Entry
	clock     func() time.Time
}

// NewService creates a map service. revisions may be nil, in which case
// uploads are not recorded.
func NewService(maps storage.MapStore, revisions storage.RevisionStore, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		maps:      maps,
		revisions: revisions,
		log:       log,
		clock:     time.Now,
	}
}

// ListMaps returns the names of all stored maps.
func (s *Service) ListMaps(ctx context.Context, in *navfilesv1.ListMapsRequest) (*navfilesv1.ListMapsResponse, error) {
	if s == nil || s.maps == nil {
		return nil, status.Error(codes.Internal, "map store is not configured")
	}
	names, err := s.maps.ListMaps(ctx)
	if err != nil {
		s.log.WithError(err).Error("list maps")
		return nil, status.Errorf(codes.Internal, "list maps: %v", err)
	}
	return &navfilesv1.ListMapsResponse{Names: names}, nil
}

// GetMap returns one map's content. A missing or unreadable map yields
// found=false rather than an error.
func (s *Service) GetMap(ctx context.Context, in *navfilesv1.GetMapRequest) (*navfilesv1.GetMapResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get map request is required")
	}
	if s == nil || s.maps == nil {
		return nil, status.Error(codes.Internal, "map store is not configured")
	}

	content, err := s.maps.GetMap(ctx, in.GetName())
	switch {
	case err == nil:
		return &navfilesv1.GetMapResponse{Content: content, Found: true}, nil
	case errors.Is(err, storage.ErrInvalidName):
		return nil, apperrors.Wrap(apperrors.CodeMapNameInvalid, err.Error(), err).ToGRPCStatus()
	case errors.Is(err, storage.ErrNotFound):
		return &navfilesv1.GetMapResponse{Found: false}, nil
	case ctx.Err() != nil:
		return nil, status.FromContextError(ctx.Err()).Err()
	default:
		s.log.WithError(err).WithField("map", in.GetName()).Warn("read map")
		return &navfilesv1.GetMapResponse{Found: false}, nil
	}
}

// UploadMap writes a map in full and records the upload.
func (s *Service) UploadMap(ctx context.Context, in *navfilesv1.UploadMapRequest) (*navfilesv1.UploadMapResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "upload map request is required")
	}
	if s == nil || s.maps == nil {
		return nil, status.Error(codes.Internal, "map store is not configured")
	}

	stored, err := s.maps.UploadMap(ctx, in.GetName(), in.GetContent())
	if err != nil {
		var writeErr *storage.WriteError
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			return nil, apperrors.Wrap(apperrors.CodeMapNameInvalid, err.Error(), err).ToGRPCStatus()
		case errors.As(err, &writeErr):
			s.log.WithError(err).WithField("map", writeErr.Name).Error("upload map")
			return nil, apperrors.Wrap(apperrors.CodeMapWriteFailed, "write map failed", err).
				WithMetadata("name", writeErr.Name).
				ToGRPCStatus()
		case ctx.Err() != nil:
			return nil, status.FromContextError(ctx.Err()).Err()
		default:
			return nil, status.Errorf(codes.Internal, "upload map: %v", err)
		}
	}

	s.recordRevision(ctx, stored, in.GetContent())
	return &navfilesv1.UploadMapResponse{Name: stored, Success: true}, nil
}

// recordRevision logs instead of failing: the map itself is already on disk.
func (s *Service) recordRevision(ctx context.Context, name, content string) {
	if s.revisions == nil {
		return
	}
	sum := sha256.Sum256([]byte(content))
	now := time.Now()
	if s.clock != nil {
		now = s.clock()
	}
	err := s.revisions.RecordRevision(ctx, storage.Revision{
		Name:       name,
		SizeBytes:  int64(len(content)),
		Checksum:   hex.EncodeToString(sum[:]),
		UploadedAt: now.UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithField("map", name).Warn("record map revision")
	}
}

// ListMapRevisions returns a page of uploads for one map, newest first.
func (s *Service) ListMapRevisions(ctx context.Context, in *navfilesv1.ListMapRevisionsRequest) (*navfilesv1.ListMapRevisionsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list map revisions request is required")
	}
	if s == nil || s.revisions == nil {
		return nil, status.Error(codes.FailedPrecondition, "map revisions are not recorded")
	}
	name := strings.TrimSpace(in.GetName())
	if err := storage.ValidateName(name); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeMapNameInvalid, err.Error(), err).ToGRPCStatus()
	}

	pageSize := pagination.ClampPageSize(in.GetPageSize(), pagination.PageSizeConfig{
		Default: defaultListMapRevisionsPageSize,
		Max:     maxListMapRevisionsPageSize,
	})
	page, err := s.revisions.ListRevisions(ctx, storage.StoredName(name), pageSize, in.GetPageToken())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRevisionsFailed, "list map revisions failed", err).ToGRPCStatus()
	}

	resp := &navfilesv1.ListMapRevisionsResponse{
		Revisions:     make([]*navfilesv1.MapRevision, 0, len(page.Revisions)),
		NextPageToken: page.NextPageToken,
	}
	for _, revision := range page.Revisions {
		resp.Revisions = append(resp.Revisions, &navfilesv1.MapRevision{
			Name:       revision.Name,
			SizeBytes:  revision.SizeBytes,
			Checksum:   revision.Checksum,
			UploadedAt: revision.UploadedAt,
		})
	}
	return resp, nil
}
