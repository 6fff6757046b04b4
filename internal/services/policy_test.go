package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationPolicyAllowed(t *testing.T) {
	p := CancellationPolicy{Window: 24 * time.Hour}
	purchased := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, p.Allowed(purchased, purchased))
	assert.True(t, p.Allowed(purchased.Add(23*time.Hour+59*time.Minute), purchased))
	assert.True(t, p.Allowed(purchased.Add(24*time.Hour), purchased), "boundary is inclusive")
	assert.False(t, p.Allowed(purchased.Add(24*time.Hour+time.Second), purchased))
}

func TestCancellationPolicyZoneIndependent(t *testing.T) {
	p := CancellationPolicy{Window: 24 * time.Hour}
	est := time.FixedZone("EST", -5*3600)
	purchased := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// same instant expressed in another zone compares identically
	assert.True(t, p.Allowed(purchased.Add(time.Hour).In(est), purchased))
	assert.False(t, p.Allowed(purchased.Add(25*time.Hour).In(est), purchased))
}
