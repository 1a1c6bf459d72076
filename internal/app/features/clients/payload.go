// internal/app/features/clients/payload.go
package clients

import (
	"encoding/json"
	"errors"
	"fmt"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	"github.com/dalemusser/canopyhub/internal/app/system/contactinfo"
	"github.com/dalemusser/canopyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/canopyhub/internal/app/system/inputval"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// errInvalidPayload wraps body problems that map to a 400.
var errInvalidPayload = errors.New("invalid payload")

// serverFields are never taken from a request body.
var serverFields = []string{"_id", "nameCi", "createdAt", "updatedAt"}

// prepare turns a submitted body into the document handed to the store.
//
// The body is normalized (contact info, legacy references, plain text),
// overlaid on current when updating, decoded into the kind's model and
// validated. The returned document holds only the model's fields that the
// caller submitted, so an update never rewrites fields it did not send.
// current is nil when creating.
func prepare(kind clientstore.Kind, body map[string]any, current any) (bson.M, error) {
	for _, f := range serverFields {
		delete(body, f)
	}

	ci := contactinfo.For(kind.Prefix)
	if err := contactinfo.NormalizePayload(body, ci); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	creating := current == nil
	if creating {
		contactinfo.FoldLegacyRefs(body, kind.LegacyRefs())
		if _, ok := body[ci.Emails]; !ok {
			body[ci.Emails] = []models.Email{}
		}
		if _, ok := body[ci.Phones]; !ok {
			body[ci.Phones] = []models.PhoneNumber{}
		}
		if _, ok := body["addresses"]; !ok && kind.Name != clientstore.Contacts.Name {
			body["addresses"] = []models.Address{}
		}
	}
	htmlsanitize.PlainTextMap(body)

	merged := map[string]any{}
	if !creating {
		b, err := json.Marshal(current)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &merged); err != nil {
			return nil, err
		}
	}
	for k, v := range body {
		merged[k] = v
	}

	model := kind.New()
	b, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	if err := json.Unmarshal(b, model); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	if res := inputval.Validate(model); res.HasErrors() {
		return nil, res
	}

	raw, err := bson.Marshal(model)
	if err != nil {
		return nil, err
	}
	var full bson.M
	if err := bson.Unmarshal(raw, &full); err != nil {
		return nil, err
	}

	doc := bson.M{}
	for k := range body {
		if v, ok := full[k]; ok && v != nil {
			doc[k] = v
		}
	}
	// A cleared legacy reference is omitted from the model; send it as nil so
	// the store unsets it.
	for _, l := range kind.Relations.Legacy {
		if v, ok := body[l.Field]; ok && (v == nil || v == "") {
			doc[l.Field] = nil
		}
	}
	return doc, nil
}
