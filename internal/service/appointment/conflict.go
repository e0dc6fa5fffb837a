package appointment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/store"
	"github.com/Alijeyrad/scheduleease/pkg/phone"
)

// normalizeContact rewrites the identity fields into the canonical form used
// for both storage and conflict lookups.
func normalizeContact(a *model.ContactMediumAttribute, region string) {
	a.PhoneNumber = phone.Normalize(a.PhoneNumber, region)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

// Identities returns the distinct phone numbers and emails referenced by ps.
func Identities(ps []model.Participant, region string) (phones, emails []string) {
	seenPhone := map[string]bool{}
	seenEmail := map[string]bool{}
	for _, p := range ps {
		a := p.ContactMedium.Attribute
		normalizeContact(&a, region)
		if a.PhoneNumber != "" && !seenPhone[a.PhoneNumber] {
			seenPhone[a.PhoneNumber] = true
			phones = append(phones, a.PhoneNumber)
		}
		if a.Email != "" && !seenEmail[a.Email] {
			seenEmail[a.Email] = true
			emails = append(emails, a.Email)
		}
	}
	return phones, emails
}

// HasConflict reports whether a live appointment other than excludeID shares
// a contact identity with ps and overlaps w.
func (m *Manager) HasConflict(ctx context.Context, w model.Window, ps []model.Participant, excludeID *uuid.UUID) (bool, error) {
	phones, emails := Identities(ps, m.cfg.PhoneRegion)
	if len(phones) == 0 && len(emails) == 0 {
		return false, nil
	}

	found, err := m.repo.FindConflicting(ctx, store.ConflictQuery{
		Start:     w.Start,
		End:       w.End,
		Phones:    phones,
		Emails:    emails,
		ExcludeID: excludeID,
	})
	if err != nil {
		m.logger.Error("conflict lookup failed", slog.String("op", "HasConflict"), slog.Any("error", err))
		return false, &Error{Kind: KindConflictCheckFailed, Status: kindStatus[KindConflictCheckFailed], Message: msgConflictCheck, Err: err}
	}
	return found, nil
}

func (m *Manager) ensureNoConflict(ctx context.Context, w model.Window, ps []model.Participant, excludeID *uuid.UUID) error {
	conflict, err := m.HasConflict(ctx, w, ps, excludeID)
	if err != nil {
		return err
	}
	if conflict {
		return newError(KindConflictDetected, msgConflict)
	}
	return nil
}
