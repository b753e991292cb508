package sharelink

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/internal/repository"
	"github.com/vetcare/clinic-api/pkg/apperror"
)

// DefaultExpiryDays applies when the request does not set a window.
const DefaultExpiryDays = 7

type Service struct {
	repo          repository.ShareLinkRepository
	animals       repository.AnimalRepository
	owners        repository.OwnerRepository
	consultations repository.ConsultationRepository
	medical       repository.MedicalRepository

	now func() time.Time
}

func NewService(repo repository.ShareLinkRepository, animals repository.AnimalRepository, owners repository.OwnerRepository, consultations repository.ConsultationRepository, medical repository.MedicalRepository) *Service {
	return &Service{
		repo:          repo,
		animals:       animals,
		owners:        owners,
		consultations: consultations,
		medical:       medical,
		now:           time.Now,
	}
}

// Create issues a share code for an animal. The code is 32 hex chars from a
// CSPRNG; guessing it is the only way in, so it must not be derivable.
func (s *Service) Create(ctx context.Context, identity access.Identity, req *model.CreateShareLinkRequest) (*model.ShareLink, error) {
	animalID, err := uuid.Parse(req.AnimalID)
	if err != nil {
		return nil, apperror.Validation("invalid animal id")
	}
	animal, err := s.animals.Get(ctx, animalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Owners cannot learn whether a foreign id exists.
			if identity.Role == model.RoleOwner {
				return nil, apperror.Forbidden("access denied")
			}
			return nil, apperror.Validation("animal not found")
		}
		return nil, apperror.Internal(err)
	}
	if identity.Role == model.RoleOwner {
		ownerID, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		if animal.OwnerID != ownerID {
			return nil, apperror.Forbidden("access denied")
		}
	} else if identity.ClinicID != nil && animal.ClinicID != *identity.ClinicID {
		return nil, apperror.Forbidden("access denied")
	}

	code, err := newCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	days := req.ExpiresInDays
	if days <= 0 {
		days = DefaultExpiryDays
	}

	link := &model.ShareLink{
		AnimalID:  animalID,
		Code:      code,
		ExpiresAt: s.now().AddDate(0, 0, days),
		MaxAccess: req.MaxAccess,
		IsActive:  true,
		CreatedBy: identity.UserID,
	}
	if err := s.repo.Create(ctx, link); err != nil {
		return nil, apperror.Internal(err)
	}

	log.Info().Str("animal_id", animalID.String()).Str("link_id", link.ID.String()).Msg("share link created")
	return link, nil
}

// List returns the caller's own links: the clinic's for staff, the links on
// the owner's animals for an OWNER. Codes are live credentials, so a caller
// never sees links outside their scope.
func (s *Service) List(ctx context.Context, identity access.Identity) ([]*model.ShareLink, error) {
	if identity.Role == model.RoleOwner {
		ownerID, err := identity.RequireOwnerID()
		if err != nil {
			return nil, err
		}
		links, err := s.repo.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		return links, nil
	}

	links, err := s.repo.List(ctx, identity.ClinicID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return links, nil
}

// Deactivate revokes the link. Revoking an already inactive link succeeds.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("share link")
		}
		return apperror.Internal(err)
	}
	return nil
}

// Resolve consumes one access slot and returns the shared view. The slot is
// taken by a single guarded update, so concurrent readers can never exceed
// the access limit. A code that exists but is revoked, expired or exhausted
// reports gone; an unknown code reports not found.
func (s *Service) Resolve(ctx context.Context, code string) (*model.SharedAnimalView, error) {
	link, err := s.repo.Access(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyDenied(ctx, code)
		}
		return nil, apperror.Internal(err)
	}
	return s.buildView(ctx, link)
}

// classifyDenied distinguishes an unknown code from a spent one after the
// guarded update matched nothing.
func (s *Service) classifyDenied(ctx context.Context, code string) error {
	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("share link")
		}
		return apperror.Internal(err)
	}

	switch {
	case !link.IsActive:
		return apperror.Gone("share link revoked")
	case !link.ExpiresAt.After(s.now()):
		return apperror.Gone("share link expired")
	default:
		return apperror.Gone("share link access limit reached")
	}
}

// buildView assembles the bounded read-only projection. No invoices, no
// messages, no owner contact details beyond the name.
func (s *Service) buildView(ctx context.Context, link *model.ShareLink) (*model.SharedAnimalView, error) {
	animal, err := s.animals.Get(ctx, link.AnimalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	owner, err := s.owners.Get(ctx, animal.OwnerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	scope := access.Scope{OwnerID: &animal.OwnerID}
	vaccinations, err := s.medical.ListVaccinations(ctx, scope, &link.AnimalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	consultations, err := s.consultations.List(ctx, scope, &link.AnimalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	certificates, err := s.medical.ListCertificates(ctx, scope, &link.AnimalID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.SharedAnimalView{
		Animal:        animal,
		OwnerName:     owner.Name,
		Vaccinations:  vaccinations,
		Consultations: consultations,
		Certificates:  certificates,
	}, nil
}

func newCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
