package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/folio-be/internal/database"
	"github.com/isdelr/folio-be/internal/metrics"
)

// ResourceKind is the closed set of things an ownership check can target.
type ResourceKind uint8

const (
	KindSelf ResourceKind = iota + 1
	KindProject
	KindSkill
	KindExperience
)

func (k ResourceKind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindProject:
		return "project"
	case KindSkill:
		return "skill"
	case KindExperience:
		return "experience"
	}
	return "unknown"
}

// ownerQuery returns the single lookup used for row-backed kinds.
func (k ResourceKind) ownerQuery() (string, error) {
	switch k {
	case KindProject:
		return "SELECT user_id FROM projects WHERE id = ?", nil
	case KindSkill:
		return "SELECT user_id FROM skills WHERE id = ?", nil
	case KindExperience:
		return "SELECT user_id FROM experiences WHERE id = ?", nil
	case KindSelf:
		return "", errors.New("self ownership has no backing row")
	}
	return "", fmt.Errorf("unknown resource kind %d", k)
}

// OwnershipResolver decides whether a caller owns a resource.
type OwnershipResolver struct {
	db *database.DB
}

// NewOwnershipResolver creates a resolver reading owner ids from db.
func NewOwnershipResolver(db *database.DB) *OwnershipResolver {
	return &OwnershipResolver{db: db}
}

// Authorize returns nil when callerID owns the resource, ErrForbidden when it
// does not (including when the row is missing or the id is not a number), and
// any other error when the lookup itself failed.
func (o *OwnershipResolver) Authorize(ctx context.Context, kind ResourceKind, rawID string, callerID int64) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return ErrForbidden
	}

	if kind == KindSelf {
		if id != callerID {
			return ErrForbidden
		}
		return nil
	}

	query, err := kind.ownerQuery()
	if err != nil {
		return err
	}

	var ownerID int64
	err = o.db.QueryRowContext(ctx, o.db.Rebind(query), id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrForbidden
		}
		return fmt.Errorf("lookup %s owner: %w", kind, err)
	}
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}

// RequireOwner creates a middleware that lets the request through only when
// the authenticated caller owns the resource named by the {id} path param.
// It must run after Authenticate.
func (o *OwnershipResolver) RequireOwner(kind ResourceKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, ErrMissingCredential)
				return
			}

			rawID := chi.URLParam(r, "id")
			err := o.Authorize(r.Context(), kind, rawID, identity.ID)
			switch {
			case err == nil:
				metrics.OwnershipDecisions.WithLabelValues(kind.String(), "granted").Inc()
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrForbidden):
				metrics.OwnershipDecisions.WithLabelValues(kind.String(), "denied").Inc()
				log.Warn().Int64("user_id", identity.ID).Str("kind", kind.String()).Str("resource_id", rawID).Msg("Ownership check denied")
				writeError(w, err)
			default:
				metrics.OwnershipDecisions.WithLabelValues(kind.String(), "error").Inc()
				log.Error().Err(err).Int64("user_id", identity.ID).Str("kind", kind.String()).Str("resource_id", rawID).Msg("Ownership lookup failed")
				writeError(w, err)
			}
		})
	}
}
