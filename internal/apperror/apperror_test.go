package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	// Wrapped errors keep their kind.
	wrapped := fmt.Errorf("while saving: %w", Conflict("duplicate"))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}
