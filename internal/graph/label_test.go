package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLabel_Accepts(t *testing.T) {
	for _, label := range []string{"Person", "Task", "a", "SENT_BY", "Invoice2", "x_9"} {
		assert.NoError(t, ValidateLabel(label), "label %q should be valid", label)
	}
}

func TestValidateLabel_Rejects(t *testing.T) {
	for _, label := range []string{
		"",
		"1Person",
		"_Person",
		"Person; DROP",
		"Person Name",
		"Person-Name",
		"Person)`",
		"Pérson",
		"SENT BY",
	} {
		err := ValidateLabel(label)
		assert.ErrorIs(t, err, ErrInvalidLabel, "label %q should be rejected", label)
	}
}

func TestValidateProperties_RejectsNestedValues(t *testing.T) {
	err := validateProperties(map[string]any{
		"name": "Sarah",
		"tags": []string{"a", "b"},
	})
	assert.ErrorIs(t, err, ErrInvalidProperty)

	err = validateProperties(map[string]any{
		"meta": map[string]any{"k": "v"},
	})
	assert.ErrorIs(t, err, ErrInvalidProperty)
}

func TestValidateProperties_RejectsUnsafeKeys(t *testing.T) {
	err := validateProperties(map[string]any{"name = '' OR 1": "x"})
	assert.ErrorIs(t, err, ErrInvalidProperty)
}
