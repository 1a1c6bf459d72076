// internal/app/features/surveys/handler.go
package surveys

import (
	"context"
	"errors"
	"net/http"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	collectionstore "github.com/dalemusser/canopyhub/internal/app/store/collections"
	surveystore "github.com/dalemusser/canopyhub/internal/app/store/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/refid"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the kitchen survey routes and the survey collection routes.
//
// It is constructed once at startup in bootstrap. RefAttempts bounds REF
// collision retries; zero uses refid.DefaultMaxAttempts. Rand is only set
// by tests.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	RefAttempts int
	Rand        refid.Rand
}

func NewHandler(db *mongo.Database, refAttempts int, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, RefAttempts: refAttempts}
}

var (
	errUnknownCollection = errors.New("collection not found")
	errUnknownSurvey     = errors.New("survey not found")
	errNoSurveys         = errors.New("no surveys selected")
)

func (h *Handler) surveys() *surveystore.Store         { return surveystore.New(h.DB) }
func (h *Handler) collections() *collectionstore.Store { return collectionstore.New(h.DB) }

// refs returns a REF generator checked against existing surveys.
func (h *Handler) refs() refid.Generator {
	return refid.Generator{
		Exists:      h.surveys().RefExists,
		MaxAttempts: h.RefAttempts,
		Rand:        h.Rand,
	}
}

// newRef allocates a version-A REF whose first segment comes from the site
// name.
func (h *Handler) newRef(ctx context.Context, site *primitive.ObjectID) (refid.Ref, error) {
	prefix := refid.DefaultPrefix
	if site != nil && !site.IsZero() {
		name, err := clientstore.New(h.DB, clientstore.Sites).Name(ctx, *site)
		if err != nil {
			return refid.Ref{}, err
		}
		prefix = refid.SitePrefix(name)
	}
	return h.refs().New(ctx, prefix, refid.SurveyPrefix)
}

// fail maps store and REF errors to responses.
func (h *Handler) fail(w http.ResponseWriter, what string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, surveystore.ErrNotFound), errors.Is(err, errUnknownSurvey):
		respond.NotFound(w, "Survey not found")
	case errors.Is(err, collectionstore.ErrNotFound), errors.Is(err, errUnknownCollection):
		respond.NotFound(w, "Collection not found")
	case errors.Is(err, surveystore.ErrDuplicateRef):
		respond.Conflict(w, "A survey with this REF already exists")
	case errors.Is(err, refid.ErrExhausted):
		respond.Conflict(w, "Could not allocate a unique REF; please try again")
	case errors.Is(err, errNoSurveys):
		respond.BadRequest(w, "Select at least one survey")
	default:
		respond.ServerError(w, h.Log, what, err, fields...)
	}
}
