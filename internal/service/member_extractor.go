package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"skool-sync/internal/domain"
	apperrors "skool-sync/pkg/errors"
)

// Payload keys tried in order; the first non-empty value wins
var (
	emailKeys      = []string{"email", "Email", "member_email", "user_email"}
	nameKeys       = []string{"name", "full_name"}
	externalIDKeys = []string{"id", "user_id", "member_id"}
)

const isPaidKey = "isPaid"

// ErrEmailRequired is the message returned when no email can be resolved
const ErrEmailRequired = "Email is required"

// ExtractMember normalizes a raw webhook payload. It fails with a validation
// error when none of the accepted email keys holds a non-empty string.
func ExtractMember(event domain.MemberEvent) (*domain.Member, error) {
	email := firstString(event, emailKeys)
	if email == "" {
		return nil, apperrors.NewValidationError(ErrEmailRequired, map[string]interface{}{
			"received_data":    event,
			"available_fields": event.Keys(),
		})
	}

	name := firstString(event, nameKeys)
	if name == "" {
		name = localPart(email)
	}

	raw := normalizeValue(map[string]interface{}(event)).(map[string]interface{})
	raw["email"] = email

	return &domain.Member{
		Email:      email,
		Name:       name,
		ExternalID: firstID(event, externalIDKeys),
		IsPaid:     truthy(event[isPaidKey]),
		Raw:        domain.MemberEvent(raw),
	}, nil
}

func firstString(event domain.MemberEvent, keys []string) string {
	for _, key := range keys {
		if s, ok := event[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstID accepts string and numeric ids; numbers are rendered without exponent
func firstID(event domain.MemberEvent, keys []string) string {
	for _, key := range keys {
		switch v := event[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			if v != "" && v != "0" {
				return v.String()
			}
		case float64:
			if v != 0 {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		case int:
			if v != 0 {
				return strconv.Itoa(v)
			}
		case int64:
			if v != 0 {
				return strconv.FormatInt(v, 10)
			}
		}
	}
	return ""
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	case json.Number:
		f, err := b.Float64()
		return err == nil && f != 0
	case float64:
		return b != 0
	}
	return false
}

// normalizeValue deep-copies decoded JSON, turning json.Number into int64 or float64
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case domain.MemberEvent:
		return normalizeValue(map[string]interface{}(val))
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return val
	}
}
