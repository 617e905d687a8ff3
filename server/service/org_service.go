package service

import (
	"context"
	"time"

	"tedbus_server/server/domain"
)

type OrgRepository interface {
	InsertOrg(ctx context.Context, org domain.Org) (string, error)
	InsertDocument(ctx context.Context, doc domain.Document) (string, error)
	ListDocumentsByOrg(ctx context.Context, orgID string) ([]domain.Document, error)
}

// OrgService covers the organization/document placeholder model. Documents
// only ever get registered with status "uploaded"; the processing side does
// not exist yet.
type OrgService struct {
	orgs OrgRepository
	now  func() time.Time
}

func NewOrgService(orgs OrgRepository) *OrgService {
	return &OrgService{orgs: orgs, now: time.Now}
}

func (s *OrgService) CreateOrg(ctx context.Context, org domain.Org) (string, error) {
	org.CreatedAt = s.now().UTC()
	return s.orgs.InsertOrg(ctx, org)
}

func (s *OrgService) RegisterDocument(ctx context.Context, doc domain.Document) (string, error) {
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusUploaded
	}
	doc.CreatedAt = s.now().UTC()
	return s.orgs.InsertDocument(ctx, doc)
}

func (s *OrgService) ListDocuments(ctx context.Context, orgID string) ([]domain.Document, error) {
	return s.orgs.ListDocumentsByOrg(ctx, orgID)
}
