package schemas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecureID = strings.Repeat("ab", 32)

func validRequest() *IssueRequest {
	return &IssueRequest{
		RequestType:   IssueRequestType,
		SchemaVersion: IssueRequestVersion,
		ID:            "issue-1",
		Vault:         "vault-alice",
		Requester:     "bob",
		SecureID:      testSecureID,
		Amount:        100000,
	}
}

func TestParseFromJSON(t *testing.T) {
	tests := []struct {
		name        string
		jsonData    string
		expectError bool
		expected    *IssueRequest
	}{
		{
			name: "valid issue request",
			jsonData: `{
				"type": "issue",
				"version": "1.0.0",
				"id": "issue-1",
				"vault": "vault-alice",
				"requester": "bob",
				"secure_id": "` + testSecureID + `",
				"amount": 100000
			}`,
			expected: validRequest(),
		},
		{
			name: "request with metadata",
			jsonData: `{
				"type": "issue",
				"version": "1.0.0",
				"id": "issue-1",
				"vault": "vault-alice",
				"requester": "bob",
				"secure_id": "` + testSecureID + `",
				"amount": 100000,
				"metadata": {"notes": "test"}
			}`,
			expected: func() *IssueRequest {
				r := validRequest()
				r.Metadata = map[string]interface{}{"notes": "test"}
				return r
			}(),
		},
		{
			name: "missing required field",
			jsonData: `{
				"type": "issue",
				"id": "issue-1",
				"vault": "vault-alice",
				"requester": "bob",
				"secure_id": "` + testSecureID + `",
				"amount": 100000
			}`,
			expectError: true,
		},
		{
			name: "short secure id",
			jsonData: `{
				"type": "issue",
				"version": "1.0.0",
				"id": "issue-1",
				"vault": "vault-alice",
				"requester": "bob",
				"secure_id": "abcd",
				"amount": 100000
			}`,
			expectError: true,
		},
		{
			name:        "invalid JSON",
			jsonData:    `{invalid json}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseFromJSON([]byte(tt.jsonData))

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseFromQueryParams(t *testing.T) {
	base := "type=issue&version=1.0.0&id=issue-1&vault=vault-alice&requester=bob&secure_id=" + testSecureID

	tests := []struct {
		name        string
		query       string
		expectError bool
	}{
		{"valid query params", base + "&amount=100000", false},
		{"with metadata", base + "&amount=100000&metadata=%7B%22notes%22%3A%22test%22%7D", false},
		{"missing amount", base, true},
		{"bad amount", base + "&amount=-5", true},
		{"wrong type", strings.Replace(base, "type=issue", "type=redeem", 1) + "&amount=1", true},
		{"invalid query format", "invalid%query%format", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseFromQueryParams(tt.query)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "issue-1", result.ID)
			assert.Equal(t, "vault-alice", result.Vault)
			assert.Equal(t, uint64(100000), result.Amount)
		})
	}
}

func TestParseFromMemo(t *testing.T) {
	jsonMemo := `  {"type":"issue","version":"1.0.0","id":"issue-1","vault":"vault-alice","requester":"bob","secure_id":"` + testSecureID + `","amount":100000}  `
	result, err := ParseFromMemo(jsonMemo)
	require.NoError(t, err)
	assert.Equal(t, validRequest(), result)

	queryMemo := "type=issue&version=1.0.0&id=issue-1&vault=vault-alice&requester=bob&secure_id=" + testSecureID + "&amount=100000"
	result, err = ParseFromMemo(queryMemo)
	require.NoError(t, err)
	assert.Equal(t, validRequest(), result)

	_, err = ParseFromMemo("")
	assert.Error(t, err)
}

func TestIssueRequest_Validate(t *testing.T) {
	mutations := map[string]func(r *IssueRequest){
		"type":      func(r *IssueRequest) { r.RequestType = "" },
		"version":   func(r *IssueRequest) { r.SchemaVersion = "" },
		"id":        func(r *IssueRequest) { r.ID = "" },
		"vault":     func(r *IssueRequest) { r.Vault = "" },
		"requester": func(r *IssueRequest) { r.Requester = "" },
		"secure_id": func(r *IssueRequest) { r.SecureID = "zz" },
		"amount":    func(r *IssueRequest) { r.Amount = 0 },
	}

	require.NoError(t, validRequest().Validate())

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			r := validRequest()
			mutate(r)
			err := r.Validate()

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, field, vErr.Field)
		})
	}
}

func TestRequestHash(t *testing.T) {
	a := RequestHash("issue-1")
	b := validRequest().Hash()
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, RequestHash("issue-2"))
	assert.Len(t, a.String(), 64)
}
