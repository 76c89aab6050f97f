package services

import (
	"context"
	"fmt"
	"html"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
	"github.com/ekverified/app-backend/utils"
)

type AuthService struct {
	Store    store.Store
	validate *validator.Validate
}

func NewAuthService(s store.Store) *AuthService {
	return &AuthService{
		Store:    s,
		validate: validator.New(),
	}
}

type RegisterRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Pin   string `json:"pin" validate:"required"`
}

// Register creates a new member with the default role. The raw PIN is never
// stored, only its bcrypt digest.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (models.Member, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Member{}, fmt.Errorf("%w: name, valid email and pin are required", ErrInvalidInput)
	}
	if !utils.IsValidPin(req.Pin) {
		return models.Member{}, fmt.Errorf("%w: pin must be exactly 4 digits", ErrInvalidInput)
	}

	hashedPin, err := utils.HashPin(req.Pin)
	if err != nil {
		return models.Member{}, err
	}

	member := models.Member{
		ID:        uuid.NewString(),
		Name:      html.EscapeString(req.Name),
		Email:     req.Email,
		HashedPin: hashedPin,
		Role:      models.RoleMember,
	}

	err = store.Update(ctx, s.Store, CollMembers, func(members []models.Member) ([]models.Member, error) {
		for _, m := range members {
			if m.Email == member.Email || m.Name == member.Name {
				return nil, ErrDuplicateIdentity
			}
		}
		return append(members, member), nil
	})
	if err != nil {
		return models.Member{}, err
	}

	logging.Logger.Infof("Event ID: MEMBER_REGISTERED, Description: Registered member %s", member.Email)
	return member.Public(), nil
}

// Authenticate checks the PIN digest and issues a session token embedding
// name, email and role. Unknown email and wrong PIN are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, pin string) (models.Member, string, error) {
	members, _, err := store.Load[models.Member](ctx, s.Store, CollMembers)
	if err != nil {
		return models.Member{}, "", err
	}

	for _, m := range members {
		if m.Email == email && utils.CheckPin(m.HashedPin, pin) {
			token, err := utils.GenerateToken(m.Name, m.Email, m.Role)
			if err != nil {
				return models.Member{}, "", err
			}
			return m.Public(), token, nil
		}
	}

	logging.Logger.Warnf("Event ID: AUTH_FAILED, Description: Failed login attempt for %s", email)
	return models.Member{}, "", ErrInvalidCredentials
}

func (s *AuthService) ListMembers(ctx context.Context, role string) ([]models.Member, error) {
	members, _, err := store.Load[models.Member](ctx, s.Store, CollMembers)
	if err != nil {
		return nil, err
	}

	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		if role != "" && m.Role != role {
			continue
		}
		out = append(out, m.Public())
	}
	return out, nil
}

// Promote changes a member's role. Chairperson only; the role must belong to
// the closed admin set.
func (s *AuthService) Promote(ctx context.Context, actorRole, targetEmail, newRole string) error {
	if actorRole != models.RoleChairperson {
		return ErrInsufficientRole
	}
	if !models.IsValidRole(newRole) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, newRole)
	}

	err := store.Update(ctx, s.Store, CollMembers, func(members []models.Member) ([]models.Member, error) {
		for i := range members {
			if members[i].Email == targetEmail {
				members[i].Role = newRole
				return members, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return err
	}

	logging.Logger.Infof("Event ID: MEMBER_PROMOTED, Description: Member %s promoted to %s", targetEmail, newRole)
	return nil
}

// UpdateProfile lets a member change their own name or PIN; a chairperson may
// do the same for anyone.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *utils.Claims, targetEmail, newName, newPin string) error {
	if actor.Email != targetEmail && actor.Role != models.RoleChairperson {
		return ErrInsufficientRole
	}
	if newPin != "" && !utils.IsValidPin(newPin) {
		return fmt.Errorf("%w: pin must be exactly 4 digits", ErrInvalidInput)
	}

	var hashedPin string
	if newPin != "" {
		var err error
		hashedPin, err = utils.HashPin(newPin)
		if err != nil {
			return err
		}
	}

	return store.Update(ctx, s.Store, CollMembers, func(members []models.Member) ([]models.Member, error) {
		for i := range members {
			if members[i].Email == targetEmail {
				if newName != "" {
					members[i].Name = html.EscapeString(newName)
				}
				if hashedPin != "" {
					members[i].HashedPin = hashedPin
				}
				return members, nil
			}
		}
		return nil, ErrNotFound
	})
}

// ResetPin restores the fixed fallback PIN. The new PIN has to reach the
// member out of band; this is the deliberately weak recovery path.
func (s *AuthService) ResetPin(ctx context.Context, actorRole, targetEmail string) error {
	if actorRole != models.RoleChairperson {
		return ErrInsufficientRole
	}

	hashedPin, err := utils.HashPin(utils.FallbackPin)
	if err != nil {
		return err
	}

	err = store.Update(ctx, s.Store, CollMembers, func(members []models.Member) ([]models.Member, error) {
		for i := range members {
			if members[i].Email == targetEmail {
				members[i].HashedPin = hashedPin
				return members, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return err
	}

	logging.Logger.Warnf("Event ID: PIN_RESET, Description: PIN for %s reset to the fallback value", targetEmail)
	return nil
}

// RemoveMember hard-deletes a member record. Chairperson only.
func (s *AuthService) RemoveMember(ctx context.Context, actorRole, targetEmail string) error {
	if actorRole != models.RoleChairperson {
		return ErrInsufficientRole
	}

	return store.Update(ctx, s.Store, CollMembers, func(members []models.Member) ([]models.Member, error) {
		for i := range members {
			if members[i].Email == targetEmail {
				return append(members[:i], members[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}
