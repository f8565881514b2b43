package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMissingHeader(t *testing.T) {
	router := setupTest(t)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "IdentityMissing", decodeBody(t, rec)["code"])
}

func TestIdentityUnknownUser(t *testing.T) {
	router := setupTest(t)

	rec := doRequest(t, router, "GET", "/pot/categories", nil,
		map[string]string{headerUserID: "9999"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "IdentityUnknown", decodeBody(t, rec)["code"])
}

func TestIdentityNonNumeric(t *testing.T) {
	router := setupTest(t)

	rec := doRequest(t, router, "GET", "/pot/categories", nil,
		map[string]string{headerUserID: "not-a-number"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "IdentityUnknown", decodeBody(t, rec)["code"])
}

func TestTokenMissingHeader(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")

	rec := doRequest(t, router, "GET", "/pot/categories", nil,
		map[string]string{headerUserID: itoa(user.ID)})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TokenMissing", decodeBody(t, rec)["code"])
}

func TestTokenUnknown(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")

	rec := doRequest(t, router, "GET", "/pot/categories", nil, map[string]string{
		headerUserID:    itoa(user.ID),
		"Authorization": "Bearer " + generateAuthToken(),
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TokenInvalid", decodeBody(t, rec)["code"])
}

func TestTokenBelongsToOtherUser(t *testing.T) {
	router := setupTest(t)
	alice := createUser(t, "alice", "secret", "alice@example.com")
	bob := createUser(t, "bob", "secret", "bob@example.com")
	grantRole(t, alice, "Buyer")
	aliceToken := liveToken(t, alice)

	// Bob exists, so the identity check passes; the token lookup then fails
	// because it is bound to Alice's id.
	rec := doRequest(t, router, "GET", "/pot/categories", nil, map[string]string{
		headerUserID:    itoa(bob.ID),
		"Authorization": "Bearer " + aliceToken.Token,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TokenInvalid", decodeBody(t, rec)["code"])
}

func TestTokenLazyExpiry(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, user, "Buyer")
	stale := issueToken(t, user, time.Now().Add(-time.Minute), false)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, authHeaders(user, stale))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TokenExpired", decodeBody(t, rec)["code"])

	// First rejection flags the row, so the next attempt sees no live row.
	var record models.Token
	require.NoError(t, database.DB.First(&record, stale.ID).Error)
	assert.True(t, record.Expired)

	rec = doRequest(t, router, "GET", "/pot/categories", nil, authHeaders(user, stale))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TokenInvalid", decodeBody(t, rec)["code"])
}

func TestTokenWithoutBearerPrefix(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, user, "Buyer")
	token := liveToken(t, user)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, map[string]string{
		headerUserID:    itoa(user.ID),
		"Authorization": token.Token,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidTokenPassesThrough(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, user, "Buyer")
	token := liveToken(t, user)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, authHeaders(user, token))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGateRejectsWrongRole(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, user, "Intern")
	token := liveToken(t, user)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, authHeaders(user, token))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["code"])
}

func TestRoleGateRejectsRolelessUser(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	token := liveToken(t, user)

	rec := doRequest(t, router, "GET", "/pot/categories", nil, authHeaders(user, token))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleGatePerEndpointAllowList(t *testing.T) {
	router := setupTest(t)
	buyer := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, buyer, "Buyer")
	token := liveToken(t, buyer)

	// Buyer may create products but not delete them.
	rec := doRequest(t, router, "POST", "/pot/product", map[string]interface{}{
		"name":          "Desk Lamp",
		"description":   "LED lamp",
		"cost_price":    10.0,
		"selling_price": 25.0,
		"category_name": "Lighting",
	}, authHeaders(buyer, token))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, "DELETE", "/pot/product/1", nil, authHeaders(buyer, token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleComesFromServerNotHeader(t *testing.T) {
	router := setupTest(t)
	user := createUser(t, "alice", "secret", "alice@example.com")
	grantRole(t, user, "Intern")
	token := liveToken(t, user)

	// A client-asserted role header must be ignored.
	headers := authHeaders(user, token)
	headers["User-Role"] = "Admin"
	rec := doRequest(t, router, "GET", "/pot/categories", nil, headers)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
