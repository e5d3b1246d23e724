package textsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "sahin isik", Fold("ŞAHİN  Işık"))
	assert.Equal(t, "gulcicek ozdemir", Fold("Gülçiçek Özdemir"))
	assert.Equal(t, "istanbul", Fold("İSTANBUL"))
	assert.Equal(t, "ilker", Fold("ILKER"))
	assert.Equal(t, "", Fold("   "))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%sahin%", LikePattern("Şahin"))
	assert.Equal(t, "%100!%%", LikePattern("100%"))
	assert.Equal(t, "%a!_b%", LikePattern("a_b"))
	assert.Equal(t, "%wow!!%", LikePattern("wow!"))
}
