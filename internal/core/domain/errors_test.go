package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "VALIDATION", Kind(ErrProxySelf))
	assert.Equal(t, "CONFLICT", Kind(ErrLinkExists))
	assert.Equal(t, "STATE", Kind(ErrDecisionFinalized))
	assert.Equal(t, "PRECONDITION", Kind(ErrDecisionNotFinalized))
	assert.Equal(t, "NOT_FOUND", Kind(ErrAssemblyNotFound))
	assert.Equal(t, "INTERNAL", Kind(errors.New("boom")))

	wrapped := fmt.Errorf("%w (decision 2026/001)", ErrDecisionFinalized)
	assert.Equal(t, "STATE", Kind(wrapped))
	assert.ErrorIs(t, wrapped, ErrState)
}
