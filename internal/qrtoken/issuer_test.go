package qrtoken

import (
	"strings"
	"testing"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	return Profile{
		UserID:                 "user-1",
		FullName:               "Test Holder",
		Email:                  "holder@example.edu",
		SubscriptionValidUntil: "2025-12-31",
		Role:                   common.RoleStudent,
		InstitutionID:          "inst-1",
	}
}

func TestIssuer_Issue(t *testing.T) {
	clock := timex.NewFake(time.Date(2025, 3, 4, 7, 0, 0, 123456789, time.UTC))
	codec := newTestCodec(t)
	issuer := NewIssuer(codec, clock, 5*time.Minute, 2*time.Minute)

	issued, err := issuer.Issue(testProfile(), 4)
	require.NoError(t, err)

	claim := issued.Claim
	assert.Equal(t, "2025-03-04T07:00:00.123Z", claim.GeneratedAt.String())
	assert.Equal(t, "2025-03-04T07:05:00.123Z", claim.ExpiresAt.String())
	assert.True(t, strings.HasPrefix(claim.QRID, "qr_1741071600123_"), claim.QRID)
	assert.Equal(t, int64(4), claim.Version)
	assert.Equal(t, "inst-1", claim.InstitutionID)
	assert.Equal(t, claim.ExpiresAt.Time().Add(-2*time.Minute), issued.RefreshAt)

	env, decoded, err := codec.DecodePayload(issued.Payload)
	require.NoError(t, err)
	assert.Equal(t, issued.Envelope, env)
	assert.Equal(t, claim, decoded)
	assert.Equal(t, 5*time.Minute, issuer.Window())
}

func TestIssuer_UniqueQRIDs(t *testing.T) {
	clock := timex.NewFake(time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC))
	issuer := NewIssuer(newTestCodec(t), clock, 5*time.Minute, 2*time.Minute)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		issued, err := issuer.Issue(testProfile(), int64(i+1))
		require.NoError(t, err)
		require.False(t, seen[issued.Claim.QRID])
		seen[issued.Claim.QRID] = true
	}
}

func TestIssuer_RefreshFallsBackToMidpoint(t *testing.T) {
	start := time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC)
	clock := timex.NewFake(start)

	for _, margin := range []time.Duration{0, 5 * time.Minute, 10 * time.Minute} {
		issuer := NewIssuer(newTestCodec(t), clock, 5*time.Minute, margin)
		issued, err := issuer.Issue(testProfile(), 1)
		require.NoError(t, err)
		assert.Equal(t, start.Add(150*time.Second), issued.RefreshAt, "margin %s", margin)
	}
}

func TestIssuer_Errors(t *testing.T) {
	clock := timex.NewFake(time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC))
	issuer := NewIssuer(newTestCodec(t), clock, 5*time.Minute, 2*time.Minute)

	noUser := testProfile()
	noUser.UserID = ""
	_, err := issuer.Issue(noUser, 1)
	require.Error(t, err)

	_, err = issuer.Issue(testProfile(), 0)
	require.Error(t, err)

	badRole := testProfile()
	badRole.Role = "guest"
	_, err = issuer.Issue(badRole, 1)
	require.ErrorIs(t, err, common.ErrMalformedClaim)
}
