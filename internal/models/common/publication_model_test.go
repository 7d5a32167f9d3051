package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicationStepJSON(t *testing.T) {
	steps := []PublicationStep{ContentStored, Tokenized}
	stepsBytes, err := json.Marshal(steps)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, `["ContentStored","Tokenized"]`, string(stepsBytes))

	var parsed []PublicationStep
	if isNoError := assert.NoError(t, json.Unmarshal(stepsBytes, &parsed)); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, steps, parsed)

	var bad PublicationStep
	assert.Error(t, json.Unmarshal([]byte(`"Halfway"`), &bad))
	assert.Equal(t, "7", PublicationStep(7).String())
}
