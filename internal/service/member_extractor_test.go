package service

import (
	"encoding/json"
	"strings"
	"testing"

	"skool-sync/internal/domain"
	apperrors "skool-sync/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEvent(t *testing.T, body string) domain.MemberEvent {
	t.Helper()

	var event domain.MemberEvent
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&event))
	return event
}

func TestExtractMember_EmailKeys(t *testing.T) {
	tests := []struct {
		name  string
		event domain.MemberEvent
		want  string
	}{
		{"email", domain.MemberEvent{"email": "a@x.com"}, "a@x.com"},
		{"Email", domain.MemberEvent{"Email": "b@x.com"}, "b@x.com"},
		{"member_email", domain.MemberEvent{"member_email": "c@x.com"}, "c@x.com"},
		{"user_email", domain.MemberEvent{"user_email": "d@x.com"}, "d@x.com"},
		{
			name:  "email beats every other key",
			event: domain.MemberEvent{"user_email": "d@x.com", "member_email": "c@x.com", "Email": "b@x.com", "email": "a@x.com"},
			want:  "a@x.com",
		},
		{
			name:  "Email beats member_email",
			event: domain.MemberEvent{"member_email": "c@x.com", "Email": "b@x.com"},
			want:  "b@x.com",
		},
		{
			name:  "member_email beats user_email",
			event: domain.MemberEvent{"user_email": "d@x.com", "member_email": "c@x.com"},
			want:  "c@x.com",
		},
		{
			name:  "empty higher-priority key is skipped",
			event: domain.MemberEvent{"email": "", "user_email": "d@x.com"},
			want:  "d@x.com",
		},
		{
			name:  "non-string higher-priority key is skipped",
			event: domain.MemberEvent{"email": json.Number("42"), "Email": "b@x.com"},
			want:  "b@x.com",
		},
		{
			name:  "no format validation",
			event: domain.MemberEvent{"email": "not-an-email"},
			want:  "not-an-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := ExtractMember(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, member.Email)
			assert.Equal(t, tt.want, member.Raw["email"])
		})
	}
}

func TestExtractMember_MissingEmail(t *testing.T) {
	events := []domain.MemberEvent{
		{},
		{"name": "A"},
		{"email": "", "Email": nil},
		{"EMAIL": "a@x.com"},
	}

	for _, event := range events {
		member, err := ExtractMember(event)
		require.Error(t, err)
		assert.Nil(t, member)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, ErrEmailRequired, appErr.Message)
		assert.Equal(t, 400, appErr.StatusCode)
		assert.ElementsMatch(t, event.Keys(), appErr.Details["available_fields"])
	}
}

func TestExtractMember_Name(t *testing.T) {
	tests := []struct {
		name  string
		event domain.MemberEvent
		want  string
	}{
		{"explicit name", domain.MemberEvent{"email": "a@x.com", "name": "Ana"}, "Ana"},
		{"full_name fallback", domain.MemberEvent{"email": "a@x.com", "full_name": "Ana Petrovic"}, "Ana Petrovic"},
		{"local part fallback", domain.MemberEvent{"email": "ana.p@x.com"}, "ana.p"},
		{"no at sign", domain.MemberEvent{"email": "ana"}, "ana"},
		{"empty name falls back", domain.MemberEvent{"email": "ana@x.com", "name": ""}, "ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := ExtractMember(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, member.Name)
		})
	}
}

func TestExtractMember_ExternalID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string id", `{"email":"a@x.com","id":"sk_1"}`, "sk_1"},
		{"numeric id keeps digits", `{"email":"a@x.com","id":12345678901234567}`, "12345678901234567"},
		{"user_id fallback", `{"email":"a@x.com","user_id":"u_2"}`, "u_2"},
		{"member_id fallback", `{"email":"a@x.com","member_id":7}`, "7"},
		{"id wins over member_id", `{"email":"a@x.com","member_id":"m","id":"i"}`, "i"},
		{"absent", `{"email":"a@x.com"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member, err := ExtractMember(decodeEvent(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, member.ExternalID)
		})
	}
}

func TestExtractMember_IsPaid(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"email":"a@x.com"}`, false},
		{`{"email":"a@x.com","isPaid":true}`, true},
		{`{"email":"a@x.com","isPaid":false}`, false},
		{`{"email":"a@x.com","isPaid":"true"}`, true},
		{`{"email":"a@x.com","isPaid":"yes please"}`, false},
		{`{"email":"a@x.com","isPaid":1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			member, err := ExtractMember(decodeEvent(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, member.IsPaid)
		})
	}
}

func TestExtractMember_RawIsNormalizedCopy(t *testing.T) {
	event := decodeEvent(t, `{"Email":"a@x.com","id":5,"score":1.5,"tags":[1,"x"],"meta":{"n":2}}`)

	member, err := ExtractMember(event)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", member.Raw["email"])
	assert.Equal(t, int64(5), member.Raw["id"])
	assert.Equal(t, 1.5, member.Raw["score"])
	assert.Equal(t, []interface{}{int64(1), "x"}, member.Raw["tags"])
	assert.Equal(t, map[string]interface{}{"n": int64(2)}, member.Raw["meta"])

	// The caller's payload is left untouched
	_, hasLower := event["email"]
	assert.False(t, hasLower)
}
