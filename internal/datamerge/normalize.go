package datamerge

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// canonicalFields maps each normalized convenience field to the ordered
// list of upstream spellings it may arrive under. First present non-empty
// candidate wins.
var canonicalFields = []struct {
	name       string
	candidates []string
}{
	{"datamerge_id", []string{"datamerge_id", "dm_id", "company_id", "companyId", "id"}},
	{"record_id", []string{"record_id", "recordId", "rec_id"}},
	{"legal_name", []string{"legal_name", "legalName", "registered_name"}},
	{"display_name", []string{"display_name", "displayName", "name", "company_name"}},
	{"domain", []string{"domain", "primary_domain", "website"}},
	{"address", []string{"address", "full_address", "hq_address"}},
	{"national_id", []string{"national_id", "nationalId", "registration_number"}},
}

// identifyingFields drive the status-correction heuristic: a record with a
// value in any of these carries real data, whatever its status token says.
var identifyingFields = []string{"legal_name", "display_name", "domain", "address", "national_id"}

// spuriousNotFound lists status tokens the upstream is known to attach to
// records that actually contain data.
var spuriousNotFound = map[string]bool{
	"not_found":      true,
	"no_query_match": true,
}

// NormalizeRecord flattens upstream field-name variance into the canonical
// convenience fields while preserving every original field untouched.
// Normalization adds, never removes.
//
// It also applies the documented status correction: when a record carries
// identifying data but the upstream marked it not_found or no_query_match,
// the normalized status becomes "success" — those markers are sometimes
// spurious and callers must not treat such records as failed lookups.
func NormalizeRecord(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}

	out := make(map[string]any, len(raw)+len(canonicalFields))
	for k, v := range raw {
		out[k] = v
	}

	for _, field := range canonicalFields {
		if existing := cast.ToString(out[field.name]); existing != "" {
			continue
		}
		for _, candidate := range field.candidates {
			v, ok := raw[candidate]
			if !ok {
				continue
			}
			if s := cast.ToString(v); s != "" {
				out[field.name] = s
				break
			}
		}
	}

	status := strings.ToLower(cast.ToString(out["status"]))
	if spuriousNotFound[status] && hasIdentifyingData(out) {
		out["status"] = "success"
	}

	return out
}

func hasIdentifyingData(record map[string]any) bool {
	for _, field := range identifyingFields {
		if cast.ToString(record[field]) != "" {
			return true
		}
	}
	return false
}

// errorMessagePaths are probed in order against upstream error bodies.
var errorMessagePaths = []string{
	"error.message",
	"message",
	"error",
	"detail",
	"errors.0.message",
}

// errorMessage digs a human-readable message out of whatever error shape
// the upstream returned. When nothing parseable is found, the fallback
// (typically the HTTP status line) is used verbatim.
func errorMessage(body []byte, fallback string) string {
	if gjson.ValidBytes(body) {
		for _, path := range errorMessagePaths {
			if res := gjson.GetBytes(body, path); res.Type == gjson.String && res.Str != "" {
				return res.Str
			}
		}
	}
	return fallback
}
